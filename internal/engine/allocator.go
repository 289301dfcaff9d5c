package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// Allocator runs the grid placement search and the drag resolver.
type Allocator struct {
	Settings model.PlanSettings
}

func New(settings model.PlanSettings) *Allocator {
	return &Allocator{Settings: settings.Normalized()}
}

func (a *Allocator) step() int {
	if a.Settings.GridStep <= 0 {
		return model.DefaultSettings().GridStep
	}
	return a.Settings.GridStep
}

// Place finds a position for a pallet of the given spec among the existing
// units. It tries the nominal orientation first, then the rotated one, and
// finally marks the pallet as overflow. Overflow units in existing are
// ignored. The result only depends on the set of occupied rectangles.
func (a *Allocator) Place(existing []model.CargoUnit, spec model.PalletSpec, bed model.TruckBed) (model.Placement, error) {
	if err := spec.Validate(); err != nil {
		return model.Placement{}, err
	}
	obstacles := obstacleRects(existing, "")

	if p, ok := a.scan(obstacles, spec.Width, spec.Height, bed); ok {
		return model.Placement{
			Rect: model.Rect{X: p.X, Y: p.Y, W: spec.Width, H: spec.Height},
		}, nil
	}

	// A square footprint gives the same result when rotated
	if spec.Width != spec.Height {
		if p, ok := a.scan(obstacles, spec.Height, spec.Width, bed); ok {
			return model.Placement{
				Rect:        model.Rect{X: p.X, Y: p.Y, W: spec.Height, H: spec.Width},
				Rotated:     true,
				HasConflict: true,
			}, nil
		}
	}

	return model.Placement{
		Rect:        model.Rect{X: 0, Y: 0, W: spec.Width, H: spec.Height},
		HasConflict: true,
		IsOverflow:  true,
	}, nil
}

// PlaceUnit places u among existing and returns the updated unit. The unit's
// nominal spec is used, so a previously rotated unit starts unrotated again.
func (a *Allocator) PlaceUnit(existing []model.CargoUnit, u model.CargoUnit, bed model.TruckBed) (model.CargoUnit, error) {
	p, err := a.Place(existing, u.Spec, bed)
	if err != nil {
		return u, err
	}
	u.Apply(p)
	return u, nil
}

// scan walks grid origins row by row, left to right, and returns the first
// origin where a w x h rectangle fits without touching an obstacle.
func (a *Allocator) scan(obstacles []model.Rect, w, h int, bed model.TruckBed) (model.Point, bool) {
	step := a.step()
	for gy := 0; gy <= bed.Width-h; gy += step {
		for gx := 0; gx <= bed.Length-w; gx += step {
			r := model.Rect{X: gx, Y: gy, W: w, H: h}
			if !model.OverlapsAny(r, obstacles) {
				return model.Point{X: gx, Y: gy}, true
			}
		}
	}
	return model.Point{}, false
}

// Resolution is the outcome of a drag.
type Resolution struct {
	Point    model.Point `json:"point"`
	Forced   bool        `json:"forced"`   // no free cell found, unit overlaps at Point
	Overflow bool        `json:"overflow"` // footprint larger than the bed, no origin is valid
}

// Resolve returns where moving should land when dropped at desired.
// The desired origin is snapped to the grid and clamped to the bed. When the
// spot is taken, grid origins are tried in order of Euclidean distance to
// the desired origin (row-major order breaks ties) up to a radius of
// max(length, width) plus one step. If nothing is free the desired origin is
// returned with Forced set. A footprint larger than the bed has no valid
// origin at all; it resolves to (0,0) with Overflow and Forced set and must
// not be kept on the bed.
func (a *Allocator) Resolve(others []model.CargoUnit, moving model.CargoUnit, desired model.Point, bed model.TruckBed) Resolution {
	step := a.step()
	w, h := moving.Rect.W, moving.Rect.H
	maxX := gridMax(bed.Length-w, step)
	maxY := gridMax(bed.Width-h, step)

	target := model.Point{
		X: clamp(snap(desired.X, step), 0, maxX),
		Y: clamp(snap(desired.Y, step), 0, maxY),
	}

	obstacles := obstacleRects(others, moving.ID)
	fitsBed := w <= bed.Length && h <= bed.Width

	if fitsBed && !model.OverlapsAny(model.Rect{X: target.X, Y: target.Y, W: w, H: h}, obstacles) {
		return Resolution{Point: target}
	}
	if !fitsBed {
		return Resolution{Forced: true, Overflow: true}
	}

	ceiling := float64(max(bed.Length, bed.Width) + step)
	for _, c := range candidatesByDistance(target, maxX, maxY, step, ceiling) {
		if !model.OverlapsAny(model.Rect{X: c.X, Y: c.Y, W: w, H: h}, obstacles) {
			return Resolution{Point: c}
		}
	}
	return Resolution{Point: target, Forced: true}
}

type candidate struct {
	p    model.Point
	dist float64
}

// candidatesByDistance lists grid origins closer than ceiling to target,
// nearest first. Equal distances keep scan order (y, then x).
func candidatesByDistance(target model.Point, maxX, maxY, step int, ceiling float64) []model.Point {
	var cands []candidate
	for gy := 0; gy <= maxY; gy += step {
		for gx := 0; gx <= maxX; gx += step {
			dx := float64(gx - target.X)
			dy := float64(gy - target.Y)
			d := math.Hypot(dx, dy)
			if d < ceiling {
				cands = append(cands, candidate{p: model.Point{X: gx, Y: gy}, dist: d})
			}
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].dist < cands[j].dist
	})
	points := make([]model.Point, len(cands))
	for i, c := range cands {
		points[i] = c.p
	}
	return points
}

// obstacleRects returns the rectangles of all placed units except overflow
// units and the unit with id skip.
func obstacleRects(units []model.CargoUnit, skip string) []model.Rect {
	rects := make([]model.Rect, 0, len(units))
	for _, u := range units {
		if u.IsOverflow || (skip != "" && u.ID == skip) {
			continue
		}
		rects = append(rects, u.Rect)
	}
	return rects
}

// snap rounds v to the nearest multiple of step.
func snap(v, step int) int {
	if v < 0 {
		return 0
	}
	return ((v + step/2) / step) * step
}

// gridMax returns the largest multiple of step not above limit, or 0.
func gridMax(limit, step int) int {
	if limit <= 0 {
		return 0
	}
	return (limit / step) * step
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
