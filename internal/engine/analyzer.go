package engine

import (
	"math"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// SpaceMetrics summarizes how a bed is used.
type SpaceMetrics struct {
	UsedSlots      int     `json:"used_slots"`
	CapacitySlots  int     `json:"capacity_slots"`
	OverflowCount  int     `json:"overflow_count"`
	ConflictCount  int     `json:"conflict_count"`
	NearFreeLength int     `json:"near_free_length"` // cm free behind the last unit in the near zone
	FarFreeLength  int     `json:"far_free_length"`  // cm free behind the last unit in the far zone
	UsedArea       int     `json:"used_area"`        // cm²
	Utilization    float64 `json:"utilization"`      // percent of bed area
	TotalWeightKg  float64 `json:"total_weight_kg"`
}

// FreeSlots returns the number of standard slots still unused, never negative.
func (m SpaceMetrics) FreeSlots() int {
	return max(m.CapacitySlots-m.UsedSlots, 0)
}

// Analyze derives space metrics from units placed on bed.
func Analyze(units []model.CargoUnit, bed model.TruckBed, settings model.PlanSettings) SpaceMetrics {
	settings = settings.Normalized()
	std := settings.StandardPallet

	m := SpaceMetrics{
		CapacitySlots: (bed.Length / std.Width) * (bed.Width / std.Height),
	}

	zoneDepth := int(math.Round(float64(bed.Width) * settings.ZoneFraction))
	near := model.Rect{X: 0, Y: 0, W: bed.Length, H: zoneDepth}
	far := model.Rect{X: 0, Y: bed.Width - zoneDepth, W: bed.Length, H: zoneDepth}
	nearEdge, farEdge := 0, 0

	for _, u := range units {
		if u.IsOverflow {
			m.OverflowCount++
			continue
		}
		m.UsedSlots++
		if u.HasConflict {
			m.ConflictCount++
		}
		m.UsedArea += u.Rect.Area()
		m.TotalWeightKg += u.Spec.WeightKg
		if u.Rect.Overlaps(near) {
			nearEdge = max(nearEdge, u.Rect.Right())
		}
		if u.Rect.Overlaps(far) {
			farEdge = max(farEdge, u.Rect.Right())
		}
	}

	m.NearFreeLength = max(bed.Length-nearEdge, 0)
	m.FarFreeLength = max(bed.Length-farEdge, 0)
	if bed.Area() > 0 {
		m.Utilization = float64(m.UsedArea) / float64(bed.Area()) * 100.0
	}
	return m
}

// ProbeResult is the free distance around a point on the bed.
type ProbeResult struct {
	Point      model.Point `json:"point"` // probe point after snapping to the grid
	Occupied   bool        `json:"occupied"`
	Left       int         `json:"left"`
	Right      int         `json:"right"`
	Up         int         `json:"up"`
	Down       int         `json:"down"`
	Horizontal int         `json:"horizontal"` // Left + Right
	Vertical   int         `json:"vertical"`   // Up + Down
}

// Probe measures the free run from p to the nearest obstacle in each
// direction. Left and right only consider units whose y-span contains the
// point, up and down only units whose x-span contains it. The bed walls
// bound every run.
func Probe(units []model.CargoUnit, bed model.TruckBed, p model.Point, settings model.PlanSettings) ProbeResult {
	step := settings.Normalized().GridStep
	pt := model.Point{
		X: clamp((max(p.X, 0)/step)*step, 0, max(bed.Length-1, 0)),
		Y: clamp((max(p.Y, 0)/step)*step, 0, max(bed.Width-1, 0)),
	}
	res := ProbeResult{Point: pt}

	left, right := 0, bed.Length
	up, down := 0, bed.Width
	for _, u := range units {
		if u.IsOverflow {
			continue
		}
		r := u.Rect
		if r.ContainsPoint(pt) {
			res.Occupied = true
			return res
		}
		if r.SpansY(pt.Y) {
			if r.Right() <= pt.X {
				left = max(left, r.Right())
			} else if r.X > pt.X {
				right = min(right, r.X)
			}
		}
		if r.SpansX(pt.X) {
			if r.Bottom() <= pt.Y {
				up = max(up, r.Bottom())
			} else if r.Y > pt.Y {
				down = min(down, r.Y)
			}
		}
	}

	res.Left = pt.X - left
	res.Right = right - pt.X
	res.Up = pt.Y - up
	res.Down = down - pt.Y
	res.Horizontal = res.Left + res.Right
	res.Vertical = res.Up + res.Down
	return res
}
