package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default allocator settings applied to new plans
	DefaultGridStep     int     `json:"default_grid_step"`
	DefaultPalletLength int     `json:"default_pallet_length"`
	DefaultPalletWidth  int     `json:"default_pallet_width"`
	DefaultZoneFraction float64 `json:"default_zone_fraction"`
	DefaultVehicle      string  `json:"default_vehicle"`

	// Application preferences
	LogLevel     string   `json:"log_level"` // "debug", "info", "warn", "error"
	PrettyLogs   bool     `json:"pretty_logs"`
	RecentRoutes []string `json:"recent_routes"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultGridStep:     defaults.GridStep,
		DefaultPalletLength: defaults.StandardPallet.Width,
		DefaultPalletWidth:  defaults.StandardPallet.Height,
		DefaultZoneFraction: defaults.ZoneFraction,
		DefaultVehicle:      "Van 3.5t",
		LogLevel:            "info",
		PrettyLogs:          true,
		RecentRoutes:        []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a PlanSettings struct.
// Zero values left in the config fall back to DefaultSettings.
func (c AppConfig) ApplyToSettings(s *PlanSettings) {
	s.GridStep = c.DefaultGridStep
	s.StandardPallet = PalletSpec{Width: c.DefaultPalletLength, Height: c.DefaultPalletWidth}
	s.ZoneFraction = c.DefaultZoneFraction
	*s = s.Normalized()
}

// AddRecentRoute records a route file at the front of the recent list,
// dropping duplicates and keeping at most ten entries.
func (c *AppConfig) AddRecentRoute(path string) {
	routes := []string{path}
	for _, r := range c.RecentRoutes {
		if r != path {
			routes = append(routes, r)
		}
	}
	if len(routes) > 10 {
		routes = routes[:10]
	}
	c.RecentRoutes = routes
}
