// Package plan holds the live cargo set of a vehicle and keeps it in step
// with the route.
package plan

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/piwi3910/LoadPlan/internal/engine"
	"github.com/piwi3910/LoadPlan/internal/model"
)

// Option configures a Plan.
type Option func(*Plan)

// WithLogger sets the logger used for placement events.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Plan) {
		p.log = l
	}
}

// WithSettings overrides the default allocator settings.
func WithSettings(s model.PlanSettings) Option {
	return func(p *Plan) {
		p.alloc = engine.New(s)
	}
}

// Plan is the live cargo set of one vehicle. Units are stored densely in
// stable order with an id index. All methods are safe for concurrent use;
// writers are serialized and readers get copies.
type Plan struct {
	mu     sync.RWMutex
	bed    model.TruckBed
	alloc  *engine.Allocator
	log    zerolog.Logger
	units  []model.CargoUnit
	index  map[string]int
	stops  []model.Stop
	demand model.Demand
}

// New creates an empty plan for the given bed.
func New(bed model.TruckBed, opts ...Option) *Plan {
	p := &Plan{
		bed:    bed,
		alloc:  engine.New(model.DefaultSettings()),
		log:    zerolog.Nop(),
		index:  make(map[string]int),
		demand: model.Demand{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Bed returns the truck bed of the plan.
func (p *Plan) Bed() model.TruckBed {
	return p.bed
}

// Settings returns the allocator settings in use.
func (p *Plan) Settings() model.PlanSettings {
	return p.alloc.Settings
}

// SetRoute replaces the route and reconciles the live set against the new
// demand. Units of owners that dropped out are removed, surplus units are
// removed from the end of an owner's list, units whose demanded footprint
// changed are placed again, and missing units are created and placed.
// Units that still match keep their position and rotation.
func (p *Plan) SetRoute(stops []model.Stop) error {
	demand, err := engine.Aggregate(stops, p.alloc.Settings)
	if err != nil {
		return fmt.Errorf("set route: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stops = engine.SortStops(stops)
	p.demand = demand

	kept := make([]model.CargoUnit, 0, len(p.units))
	var replace []model.CargoUnit
	seen := make(map[string]int)
	for _, u := range p.units {
		if u.IsCustom() {
			kept = append(kept, u)
			continue
		}
		entry, ok := demand[u.OwnerID]
		n := seen[u.OwnerID]
		if !ok || n >= len(entry.Pallets) {
			p.log.Debug().Str("unit", u.ID).Str("owner", u.OwnerID).Msg("unit no longer demanded")
			continue
		}
		seen[u.OwnerID]++
		u.Label, u.Color = entry.Label, entry.Color
		if !u.Spec.SameFootprint(entry.Pallets[n]) {
			u.Spec = entry.Pallets[n]
			replace = append(replace, u)
			// Keep the slot so live order stays the demand order
			u.IsOverflow = true
		}
		kept = append(kept, u)
	}
	p.units = kept
	p.reindex()

	for _, u := range replace {
		if _, err := p.placeLocked(p.index[u.ID], u); err != nil {
			return fmt.Errorf("set route: %w", err)
		}
	}

	for _, owner := range demand.Owners() {
		entry := demand[owner]
		for i := seen[owner]; i < len(entry.Pallets); i++ {
			u := model.NewCargoUnit(owner, entry.Pallets[i], entry.Label, entry.Color)
			p.units = append(p.units, u)
			p.index[u.ID] = len(p.units) - 1
			if _, err := p.placeLocked(len(p.units)-1, u); err != nil {
				return fmt.Errorf("set route: %w", err)
			}
		}
	}

	p.log.Info().
		Int("stops", len(p.stops)).
		Int("owners", len(demand)).
		Int("units", len(p.units)).
		Msg("route reconciled")
	return nil
}

// placeLocked runs the placement search for the unit stored at idx and
// writes the result back. The caller holds the write lock.
func (p *Plan) placeLocked(idx int, u model.CargoUnit) (model.CargoUnit, error) {
	others := make([]model.CargoUnit, 0, len(p.units)-1)
	for i, o := range p.units {
		if i != idx {
			others = append(others, o)
		}
	}
	placed, err := p.alloc.PlaceUnit(others, u, p.bed)
	if err != nil {
		return u, err
	}
	p.record(p.units[idx], placed)
	p.units[idx] = placed
	return placed, nil
}

// record logs flag transitions so hosts can trace why a unit ended up
// flagged.
func (p *Plan) record(before, after model.CargoUnit) {
	if before.HasConflict == after.HasConflict && before.IsOverflow == after.IsOverflow {
		return
	}
	p.log.Debug().
		Str("unit", after.ID).
		Str("owner", after.OwnerID).
		Str("from", before.Flags()).
		Str("to", after.Flags()).
		Msg("unit flags changed")
}

func (p *Plan) reindex() {
	p.index = make(map[string]int, len(p.units))
	for i, u := range p.units {
		p.index[u.ID] = i
	}
}

// AddCustom places a hand-added pallet that belongs to no stop.
func (p *Plan) AddCustom(spec model.PalletSpec, label string) (model.CargoUnit, error) {
	if err := spec.Validate(); err != nil {
		return model.CargoUnit{}, fmt.Errorf("add custom: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if label == "" {
		label = fmt.Sprintf("Custom %dx%d", spec.Width, spec.Height)
	}
	u := model.NewCargoUnit(model.CustomOwner, spec, label, "#9E9E9E")
	p.units = append(p.units, u)
	p.index[u.ID] = len(p.units) - 1
	return p.placeLocked(len(p.units)-1, u)
}

// Remove deletes a single unit.
func (p *Plan) Remove(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.index[id]
	if !ok {
		return fmt.Errorf("remove %q: %w", id, model.ErrUnitNotFound)
	}
	p.units = append(p.units[:idx], p.units[idx+1:]...)
	p.reindex()
	return nil
}

// RemoveOwner deletes every unit of the owner and returns how many were removed.
func (p *Plan) RemoveOwner(owner string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.units[:0]
	removed := 0
	for _, u := range p.units {
		if u.OwnerID == owner {
			removed++
			continue
		}
		kept = append(kept, u)
	}
	if removed == 0 {
		return 0, fmt.Errorf("remove owner %q: %w", owner, model.ErrOwnerNotFound)
	}
	p.units = kept
	p.reindex()
	p.log.Debug().Str("owner", owner).Int("removed", removed).Msg("owner units removed")
	return removed, nil
}

// Move drags a unit to the desired origin and resolves collisions. A move
// that cannot find a free cell leaves the unit overlapping with HasConflict
// set. Moving an overflow unit puts it back on the bed, unless its footprint
// is larger than the bed, in which case it stays in overflow.
func (p *Plan) Move(id string, desired model.Point) (model.CargoUnit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.index[id]
	if !ok {
		return model.CargoUnit{}, fmt.Errorf("move %q: %w", id, model.ErrUnitNotFound)
	}
	before := p.units[idx]
	res := p.alloc.Resolve(p.units, before, desired, p.bed)

	after := before
	after.Rect = before.Rect.At(res.Point)
	after.IsOverflow = res.Overflow
	after.HasConflict = res.Forced
	p.record(before, after)
	p.units[idx] = after
	return after, nil
}

// Rotate turns a unit by 90 degrees. The rotated footprint stays at the
// unit's origin when it fits there, otherwise it is moved to the nearest
// free cell. Rotating an overflow unit only swaps its footprint. A rotation
// whose footprint is larger than the bed is refused with ErrDoesNotFit and
// the unit is left unchanged.
func (p *Plan) Rotate(id string) (model.CargoUnit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.index[id]
	if !ok {
		return model.CargoUnit{}, fmt.Errorf("rotate %q: %w", id, model.ErrUnitNotFound)
	}
	before := p.units[idx]
	after := before
	after.Rotated = !before.Rotated
	after.Rect = model.Rect{X: before.Rect.X, Y: before.Rect.Y, W: before.Rect.H, H: before.Rect.W}

	if !after.IsOverflow {
		res := p.alloc.Resolve(p.units, after, after.Rect.Origin(), p.bed)
		if res.Overflow {
			return before, fmt.Errorf("rotate %q to %dx%d: %w", id, after.Rect.W, after.Rect.H, model.ErrDoesNotFit)
		}
		after.Rect = after.Rect.At(res.Point)
		after.HasConflict = res.Forced
	}
	p.record(before, after)
	p.units[idx] = after
	return after, nil
}

// RestoreOverflow runs the placement search again for an overflow unit.
// The unit stays in overflow when there is still no room.
func (p *Plan) RestoreOverflow(id string) (model.CargoUnit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.index[id]
	if !ok {
		return model.CargoUnit{}, fmt.Errorf("restore %q: %w", id, model.ErrUnitNotFound)
	}
	u := p.units[idx]
	if !u.IsOverflow {
		return u, nil
	}
	return p.placeLocked(idx, u)
}

// Units returns a copy of the live set in stable order.
func (p *Plan) Units() []model.CargoUnit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot()
}

func (p *Plan) snapshot() []model.CargoUnit {
	out := make([]model.CargoUnit, len(p.units))
	copy(out, p.units)
	return out
}

// Unit returns the unit with the given id.
func (p *Plan) Unit(id string) (model.CargoUnit, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	idx, ok := p.index[id]
	if !ok {
		return model.CargoUnit{}, fmt.Errorf("unit %q: %w", id, model.ErrUnitNotFound)
	}
	return p.units[idx], nil
}

// Overflow returns the units that did not fit on the bed.
func (p *Plan) Overflow() []model.CargoUnit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []model.CargoUnit
	for _, u := range p.units {
		if u.IsOverflow {
			out = append(out, u)
		}
	}
	return out
}

// Stops returns the current route in stop order.
func (p *Plan) Stops() []model.Stop {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Stop, len(p.stops))
	copy(out, p.stops)
	return out
}

// State returns the route and a copy of the live set taken under one lock,
// so the two always belong together.
func (p *Plan) State() ([]model.Stop, []model.CargoUnit) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	stops := make([]model.Stop, len(p.stops))
	copy(stops, p.stops)
	return stops, p.snapshot()
}

// Demand returns the aggregated demand of the current route.
func (p *Plan) Demand() model.Demand {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(model.Demand, len(p.demand))
	for k, v := range p.demand {
		out[k] = v
	}
	return out
}

// Project returns the units aboard after the given stop.
func (p *Plan) Project(stopID string) ([]model.CargoUnit, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return engine.Project(p.units, p.demand, p.stops, stopID)
}

// Timeline returns the units aboard after every stop.
func (p *Plan) Timeline() []engine.StopSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return engine.Timeline(p.snapshot(), p.demand, p.stops)
}

// Analyze returns space metrics for the whole live set.
func (p *Plan) Analyze() engine.SpaceMetrics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return engine.Analyze(p.units, p.bed, p.alloc.Settings)
}

// Probe measures free distances around a point of the live set.
func (p *Plan) Probe(pt model.Point) engine.ProbeResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return engine.Probe(p.units, p.bed, pt, p.alloc.Settings)
}

// Restore replaces the route and live set with saved state without running
// any placement, so saved manual positions come back exactly.
func (p *Plan) Restore(stops []model.Stop, units []model.CargoUnit) error {
	demand, err := engine.Aggregate(stops, p.alloc.Settings)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops = engine.SortStops(stops)
	p.demand = demand
	p.units = make([]model.CargoUnit, len(units))
	copy(p.units, units)
	p.reindex()
	return nil
}
