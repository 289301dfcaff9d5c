// Package export renders load plans to PDF load sheets, QR-coded pallet
// labels and spreadsheet manifests.
package export

import (
	"strconv"
	"strings"

	"github.com/piwi3910/LoadPlan/internal/engine"
	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/plan"
)

// LoadSheet is everything the exporters need about one vehicle's plan.
type LoadSheet struct {
	Vehicle  model.VehicleProfile
	Settings model.PlanSettings
	Units    []model.CargoUnit     // live set
	Stops    []model.Stop          // route in stop order
	Timeline []engine.StopSnapshot // units aboard after each stop
	Metrics  engine.SpaceMetrics   // metrics of the whole live set
}

// NewLoadSheet captures the current state of p for export.
func NewLoadSheet(vehicle model.VehicleProfile, p *plan.Plan) LoadSheet {
	return LoadSheet{
		Vehicle:  vehicle,
		Settings: p.Settings(),
		Units:    p.Units(),
		Stops:    p.Stops(),
		Timeline: p.Timeline(),
		Metrics:  p.Analyze(),
	}
}

// rgb is a color for drawing.
type rgb struct {
	R, G, B int
}

// fallbackColors is used for units without a parseable color.
var fallbackColors = []rgb{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// parseHexColor parses "#RRGGBB" or "RRGGBB".
func parseHexColor(s string) (rgb, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, true
}

// unitColor returns the draw color of the i-th unit.
func unitColor(u model.CargoUnit, i int) rgb {
	if c, ok := parseHexColor(u.Color); ok {
		return c
	}
	return fallbackColors[i%len(fallbackColors)]
}

// stopTitle returns a human-readable name for a stop.
func stopTitle(s model.Stop) string {
	name := s.Label
	if name == "" {
		name = s.OwnerID
	}
	return name
}
