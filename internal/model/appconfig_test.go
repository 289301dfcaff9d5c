package model

import "testing"

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.DefaultGridStep != defaults.GridStep {
		t.Errorf("GridStep mismatch: config=%d settings=%d", cfg.DefaultGridStep, defaults.GridStep)
	}
	if cfg.DefaultPalletLength != defaults.StandardPallet.Width {
		t.Errorf("pallet length mismatch: config=%d settings=%d", cfg.DefaultPalletLength, defaults.StandardPallet.Width)
	}
	if cfg.DefaultPalletWidth != defaults.StandardPallet.Height {
		t.Errorf("pallet width mismatch: config=%d settings=%d", cfg.DefaultPalletWidth, defaults.StandardPallet.Height)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level=info, got %s", cfg.LogLevel)
	}
	if cfg.RecentRoutes == nil {
		t.Error("RecentRoutes should not be nil")
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultGridStep = 5
	cfg.DefaultPalletLength = 120
	cfg.DefaultPalletWidth = 100

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.GridStep != 5 {
		t.Errorf("expected GridStep=5, got %d", s.GridStep)
	}
	if s.StandardPallet != (PalletSpec{Width: 120, Height: 100}) {
		t.Errorf("expected 120x100 standard pallet, got %+v", s.StandardPallet)
	}
}

func TestApplyToSettingsFallsBackOnZeroValues(t *testing.T) {
	var cfg AppConfig

	var s PlanSettings
	cfg.ApplyToSettings(&s)

	if s != DefaultSettings() {
		t.Errorf("expected defaults for empty config, got %+v", s)
	}
}

func TestAddRecentRoute(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentRoute("/tmp/a.csv")
	cfg.AddRecentRoute("/tmp/b.csv")
	cfg.AddRecentRoute("/tmp/a.csv")

	if len(cfg.RecentRoutes) != 2 {
		t.Fatalf("expected 2 recent routes, got %d", len(cfg.RecentRoutes))
	}
	if cfg.RecentRoutes[0] != "/tmp/a.csv" {
		t.Errorf("expected most recent first, got %s", cfg.RecentRoutes[0])
	}

	for i := 0; i < 15; i++ {
		cfg.AddRecentRoute(string(rune('a'+i)) + ".csv")
	}
	if len(cfg.RecentRoutes) != 10 {
		t.Errorf("expected recent list capped at 10, got %d", len(cfg.RecentRoutes))
	}
}
