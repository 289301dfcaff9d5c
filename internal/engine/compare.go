package engine

import (
	"github.com/piwi3910/LoadPlan/internal/model"
)

// Materialize creates and places one unit per demanded pallet, owner by
// owner in demand order, on an empty bed.
func (a *Allocator) Materialize(demand model.Demand, bed model.TruckBed) ([]model.CargoUnit, error) {
	units := make([]model.CargoUnit, 0, demand.Total())
	for _, owner := range demand.Owners() {
		entry := demand[owner]
		for _, spec := range entry.Pallets {
			u := model.NewCargoUnit(owner, spec, entry.Label, entry.Color)
			placed, err := a.PlaceUnit(units, u, bed)
			if err != nil {
				return nil, err
			}
			units = append(units, placed)
		}
	}
	return units, nil
}

// VehicleComparison holds the outcome of planning one route on one vehicle.
type VehicleComparison struct {
	Vehicle      model.VehicleProfile
	Units        []model.CargoUnit
	Metrics      SpaceMetrics
	PeakAboard   int // most pallets aboard after any stop
	PeakOverflow int // most overflow pallets aboard after any stop
	FitsAllStops bool
}

// CompareVehicles plans the same route on each vehicle and returns the
// results in vehicle order. This lets a dispatcher see which vehicle carries
// a route without overflow.
func CompareVehicles(vehicles []model.VehicleProfile, stops []model.Stop, settings model.PlanSettings) ([]VehicleComparison, error) {
	demand, err := Aggregate(stops, settings)
	if err != nil {
		return nil, err
	}
	alloc := New(settings)

	results := make([]VehicleComparison, 0, len(vehicles))
	for _, v := range vehicles {
		units, err := alloc.Materialize(demand, v.Bed)
		if err != nil {
			return nil, err
		}

		cmp := VehicleComparison{
			Vehicle: v,
			Units:   units,
			Metrics: Analyze(units, v.Bed, alloc.Settings),
		}
		for _, snap := range Timeline(units, demand, stops) {
			overflow := 0
			for _, u := range snap.Units {
				if u.IsOverflow {
					overflow++
				}
			}
			cmp.PeakAboard = max(cmp.PeakAboard, len(snap.Units))
			cmp.PeakOverflow = max(cmp.PeakOverflow, overflow)
		}
		cmp.FitsAllStops = cmp.PeakOverflow == 0
		results = append(results, cmp)
	}
	return results, nil
}

// BestVehicle returns the index of the smallest vehicle that fits the route
// at every stop, or -1 when none does.
func BestVehicle(results []VehicleComparison) int {
	best := -1
	for i, r := range results {
		if !r.FitsAllStops {
			continue
		}
		if best < 0 || r.Vehicle.Bed.Area() < results[best].Vehicle.Bed.Area() {
			best = i
		}
	}
	return best
}
