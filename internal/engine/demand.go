package engine

import (
	"sort"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// SortStops returns a copy of stops ordered by OrderIndex. Stops sharing an
// index keep their input order.
func SortStops(stops []model.Stop) []model.Stop {
	sorted := make([]model.Stop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderIndex < sorted[j].OrderIndex
	})
	return sorted
}

// Aggregate turns an ordered stop list into the pallets each owner needs on
// board. Only pickup stops contribute; their pallets are appended in route
// order, so an owner's earlier pallets keep their position in the list when
// later stops change.
func Aggregate(stops []model.Stop, settings model.PlanSettings) (model.Demand, error) {
	settings = settings.Normalized()
	for _, s := range stops {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	demand := model.Demand{}
	rank := 0
	for _, s := range SortStops(stops) {
		if !s.Kind.Loads() {
			continue
		}
		entry, ok := demand[s.OwnerID]
		if !ok {
			entry = model.DemandEntry{
				Label: s.Label,
				Color: s.Color,
				Rank:  rank,
			}
			if entry.Label == "" {
				entry.Label = s.OwnerID
			}
			if entry.Color == "" {
				entry.Color = model.OwnerColor(rank)
			}
			rank++
		}
		entry.Pallets = append(entry.Pallets, s.ExpandPallets(settings.StandardPallet)...)
		demand[s.OwnerID] = entry
	}
	return demand, nil
}
