package plan

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// Fleet keeps one Plan per vehicle. Plans of different vehicles never share
// a lock, so operations on separate vehicles run independently.
type Fleet struct {
	mu       sync.RWMutex
	plans    map[string]*Plan
	settings model.PlanSettings
	log      zerolog.Logger
}

// NewFleet creates an empty registry. Plans created through it share the
// given settings and logger.
func NewFleet(settings model.PlanSettings, log zerolog.Logger) *Fleet {
	return &Fleet{
		plans:    make(map[string]*Plan),
		settings: settings.Normalized(),
		log:      log,
	}
}

// Open returns the plan for the vehicle, creating it on first use.
func (f *Fleet) Open(v model.VehicleProfile) (*Plan, error) {
	if v.Bed.Length <= 0 || v.Bed.Width <= 0 {
		return nil, fmt.Errorf("vehicle %q bed %dx%d: %w", v.Name, v.Bed.Length, v.Bed.Width, model.ErrInvalidGeometry)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.plans[v.ID]; ok {
		return p, nil
	}
	p := New(v.Bed,
		WithSettings(f.settings),
		WithLogger(f.log.With().Str("vehicle", v.Name).Logger()),
	)
	f.plans[v.ID] = p
	return p, nil
}

// Get returns the plan for a vehicle id.
func (f *Fleet) Get(vehicleID string) (*Plan, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.plans[vehicleID]
	return p, ok
}

// Close drops the plan of a vehicle.
func (f *Fleet) Close(vehicleID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.plans, vehicleID)
}

// Vehicles returns the ids of all open plans, sorted.
func (f *Fleet) Vehicles() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ids := make([]string, 0, len(f.plans))
	for id := range f.plans {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
