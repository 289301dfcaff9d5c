package project

import (
	"testing"

	"github.com/piwi3910/LoadPlan/internal/model"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvGridStep, "5")
	t.Setenv(EnvPalletLength, "100")
	t.Setenv(EnvPalletWidth, "60")
	t.Setenv(EnvProfile, "Rigid 12t")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvPrettyLogs, "false")

	cfg := ApplyEnv(model.DefaultAppConfig())

	if cfg.DefaultGridStep != 5 {
		t.Errorf("expected grid step 5, got %d", cfg.DefaultGridStep)
	}
	if cfg.DefaultPalletLength != 100 || cfg.DefaultPalletWidth != 60 {
		t.Errorf("expected pallet 100x60, got %dx%d", cfg.DefaultPalletLength, cfg.DefaultPalletWidth)
	}
	if cfg.DefaultVehicle != "Rigid 12t" {
		t.Errorf("expected vehicle Rigid 12t, got %s", cfg.DefaultVehicle)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.LogLevel)
	}
	if cfg.PrettyLogs {
		t.Error("expected pretty logs to be disabled")
	}
}

func TestApplyEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv(EnvGridStep, "ten")
	t.Setenv(EnvPalletLength, "-120")
	t.Setenv(EnvPrettyLogs, "maybe")

	defaults := model.DefaultAppConfig()
	cfg := ApplyEnv(defaults)

	if cfg.DefaultGridStep != defaults.DefaultGridStep {
		t.Errorf("expected grid step %d, got %d", defaults.DefaultGridStep, cfg.DefaultGridStep)
	}
	if cfg.DefaultPalletLength != defaults.DefaultPalletLength {
		t.Errorf("expected pallet length %d, got %d", defaults.DefaultPalletLength, cfg.DefaultPalletLength)
	}
	if cfg.PrettyLogs != defaults.PrettyLogs {
		t.Error("invalid bool should keep the stored value")
	}
}

func TestApplyEnvUnsetKeepsConfig(t *testing.T) {
	t.Setenv(EnvProfile, "")

	cfg := model.DefaultAppConfig()
	cfg.DefaultVehicle = "Box truck 7.5t"

	if got := ApplyEnv(cfg).DefaultVehicle; got != "Box truck 7.5t" {
		t.Errorf("expected stored vehicle to be kept, got %s", got)
	}
}
