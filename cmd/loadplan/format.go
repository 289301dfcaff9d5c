package main

import (
	"fmt"
	"io"

	"github.com/piwi3910/LoadPlan/internal/engine"
	"github.com/piwi3910/LoadPlan/internal/export"
	"github.com/piwi3910/LoadPlan/internal/model"
)

func printPlan(w io.Writer, sheet export.LoadSheet) {
	bed := sheet.Vehicle.Bed
	fmt.Fprintf(w, "%s (%d x %d cm)\n", sheet.Vehicle.Name, bed.Length, bed.Width)
	fmt.Fprintln(w)

	printUnits(w, "Full load", sheet.Units)

	if len(sheet.Timeline) > 0 {
		fmt.Fprintln(w, "ROUTE:")
		for _, snap := range sheet.Timeline {
			overflow := 0
			for _, u := range snap.Units {
				if u.IsOverflow {
					overflow++
				}
			}
			fmt.Fprintf(w, "  %3d  %-8s %-14s %-20s aboard %3d",
				snap.Stop.OrderIndex, snap.Stop.ID, snap.Stop.Kind, snap.Stop.OwnerID, len(snap.Units))
			if overflow > 0 {
				fmt.Fprintf(w, "  (%d not loaded)", overflow)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	printMetrics(w, sheet.Metrics, sheet.Vehicle)
}

func printUnits(w io.Writer, title string, units []model.CargoUnit) {
	fmt.Fprintf(w, "%s (%d units):\n", title, len(units))
	for _, u := range units {
		if u.IsOverflow {
			fmt.Fprintf(w, "  %-8s %-20s %4d x %-4d  NOT LOADED\n", u.ID, u.OwnerID, u.Rect.W, u.Rect.H)
			continue
		}
		fmt.Fprintf(w, "  %-8s %-20s %4d x %-4d  at (%d, %d)  %s\n",
			u.ID, u.OwnerID, u.Rect.W, u.Rect.H, u.Rect.X, u.Rect.Y, u.Flags())
	}
	fmt.Fprintln(w)
}

func printMetrics(w io.Writer, m engine.SpaceMetrics, v model.VehicleProfile) {
	fmt.Fprintln(w, "SPACE:")
	fmt.Fprintf(w, "  Slots:        %d used / %d capacity (%d free)\n", m.UsedSlots, m.CapacitySlots, m.FreeSlots())
	fmt.Fprintf(w, "  Utilization:  %.1f%%\n", m.Utilization)
	fmt.Fprintf(w, "  Free length:  near %d cm, far %d cm\n", m.NearFreeLength, m.FarFreeLength)
	if m.ConflictCount > 0 {
		fmt.Fprintf(w, "  Conflicts:    %d\n", m.ConflictCount)
	}
	if m.OverflowCount > 0 {
		fmt.Fprintf(w, "  Not loaded:   %d\n", m.OverflowCount)
	}
	if m.TotalWeightKg > 0 {
		fmt.Fprintf(w, "  Weight:       %.0f kg", m.TotalWeightKg)
		if v.MaxPayloadKg > 0 && m.TotalWeightKg > v.MaxPayloadKg {
			fmt.Fprintf(w, "  (over payload of %.0f kg)", v.MaxPayloadKg)
		}
		fmt.Fprintln(w)
	}
}

func printComparison(w io.Writer, results []engine.VehicleComparison, best int) {
	fmt.Fprintf(w, "%-20s %10s %8s %8s %8s %6s\n", "VEHICLE", "BED", "PEAK", "MISSING", "USED %", "FITS")
	for i, r := range results {
		bed := fmt.Sprintf("%dx%d", r.Vehicle.Bed.Length, r.Vehicle.Bed.Width)
		fits := "no"
		if r.FitsAllStops {
			fits = "yes"
		}
		marker := " "
		if i == best {
			marker = "*"
		}
		fmt.Fprintf(w, "%s%-19s %10s %8d %8d %7.1f%% %6s\n",
			marker, r.Vehicle.Name, bed, r.PeakAboard, r.PeakOverflow, r.Metrics.Utilization, fits)
	}
	fmt.Fprintln(w)
	if best < 0 {
		fmt.Fprintln(w, "Result: no vehicle carries the route without leaving pallets behind")
		return
	}
	fmt.Fprintf(w, "Result: %s is the smallest vehicle that fits\n", results[best].Vehicle.Name)
}

func printInventory(w io.Writer, inv model.Inventory) {
	fmt.Fprintf(w, "VEHICLES (%d):\n", len(inv.Vehicles))
	for _, v := range inv.Vehicles {
		fmt.Fprintf(w, "  %-8s %-20s %5d x %-4d cm  %6.0f kg\n", v.ID, v.Name, v.Bed.Length, v.Bed.Width, v.MaxPayloadKg)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "PALLETS (%d):\n", len(inv.Pallets))
	for _, p := range inv.Pallets {
		fmt.Fprintf(w, "  %-8s %-24s %4d x %-4d cm\n", p.ID, p.Name, p.Spec.Width, p.Spec.Height)
	}
}
