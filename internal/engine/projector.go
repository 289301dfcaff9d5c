package engine

import (
	"fmt"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// StopSnapshot is the cargo aboard right after a stop.
type StopSnapshot struct {
	Stop  model.Stop        `json:"stop"`
	Units []model.CargoUnit `json:"units"`
}

// Project returns the units aboard once the stop with id uptoStopID has been
// served. Pickups add to an owner's running pallet count and deliveries
// subtract from it, never below zero. Each owner contributes its first k
// units in live-set order; hand-added units are always aboard. Owners that
// are not part of demand are skipped. The input slice is not modified.
func Project(units []model.CargoUnit, demand model.Demand, stops []model.Stop, uptoStopID string) ([]model.CargoUnit, error) {
	sorted := SortStops(stops)
	selected := -1
	for i, s := range sorted {
		if s.ID == uptoStopID {
			selected = i
			break
		}
	}
	if selected < 0 {
		return nil, fmt.Errorf("project %q: %w", uptoStopID, model.ErrStopNotFound)
	}

	limit := sorted[selected].OrderIndex
	counts := make(map[string]int)
	for _, s := range sorted {
		if s.OrderIndex > limit {
			break
		}
		n := s.PalletCount()
		if s.Kind.Loads() {
			counts[s.OwnerID] += n
		} else {
			counts[s.OwnerID] = max(counts[s.OwnerID]-n, 0)
		}
	}

	return selectAboard(units, demand, counts), nil
}

func selectAboard(units []model.CargoUnit, demand model.Demand, counts map[string]int) []model.CargoUnit {
	out := make([]model.CargoUnit, 0, len(units))
	taken := make(map[string]int)
	for _, u := range units {
		if u.IsCustom() {
			out = append(out, u)
			continue
		}
		if _, ok := demand[u.OwnerID]; !ok {
			continue
		}
		if taken[u.OwnerID] < counts[u.OwnerID] {
			out = append(out, u)
			taken[u.OwnerID]++
		}
	}
	return out
}

// Timeline projects the units at every stop of the route, in route order.
func Timeline(units []model.CargoUnit, demand model.Demand, stops []model.Stop) []StopSnapshot {
	sorted := SortStops(stops)
	snapshots := make([]StopSnapshot, 0, len(sorted))
	counts := make(map[string]int)
	for i := 0; i < len(sorted); {
		// Stops sharing an order index are served together
		j := i
		for j < len(sorted) && sorted[j].OrderIndex == sorted[i].OrderIndex {
			s := sorted[j]
			if s.Kind.Loads() {
				counts[s.OwnerID] += s.PalletCount()
			} else {
				counts[s.OwnerID] = max(counts[s.OwnerID]-s.PalletCount(), 0)
			}
			j++
		}
		aboard := selectAboard(units, demand, counts)
		for k := i; k < j; k++ {
			snapshots = append(snapshots, StopSnapshot{Stop: sorted[k], Units: aboard})
		}
		i = j
	}
	return snapshots
}
