package engine

import (
	"testing"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestAnalyze_SlotsAndZones(t *testing.T) {
	bed := model.TruckBed{Length: 403, Width: 220}
	overflow := unitAt("d", "A", 0, 0, 120, 80)
	overflow.IsOverflow = true
	rotated := unitAt("c", "B", 0, 140, 120, 80)
	rotated.HasConflict = true
	units := []model.CargoUnit{
		unitAt("a", "A", 0, 0, 120, 80),
		unitAt("b", "A", 120, 0, 120, 80),
		rotated,
		overflow,
	}

	m := Analyze(units, bed, model.DefaultSettings())

	assert.Equal(t, 3, m.UsedSlots)
	assert.Equal(t, 6, m.CapacitySlots, "3 x 2 euro pallets fit a 403x220 bed")
	assert.Equal(t, 3, m.FreeSlots())
	assert.Equal(t, 1, m.OverflowCount)
	assert.Equal(t, 1, m.ConflictCount)
	assert.Equal(t, 403-240, m.NearFreeLength)
	assert.Equal(t, 403-120, m.FarFreeLength)
	assert.Equal(t, 3*120*80, m.UsedArea)
	assert.InDelta(t, float64(3*120*80)/float64(403*220)*100, m.Utilization, 0.0001)
}

func TestAnalyze_EmptyBed(t *testing.T) {
	bed := model.TruckBed{Length: 403, Width: 220}

	m := Analyze(nil, bed, model.DefaultSettings())

	assert.Equal(t, 0, m.UsedSlots)
	assert.Equal(t, 403, m.NearFreeLength)
	assert.Equal(t, 403, m.FarFreeLength)
	assert.Equal(t, 0.0, m.Utilization)
}

func TestAnalyze_MiddleUnitTouchesNoZone(t *testing.T) {
	bed := model.TruckBed{Length: 403, Width: 220}
	units := []model.CargoUnit{unitAt("a", "A", 0, 70, 300, 80)}

	m := Analyze(units, bed, model.DefaultSettings())

	assert.Equal(t, 403, m.NearFreeLength)
	assert.Equal(t, 403, m.FarFreeLength)
}

func TestAnalyze_SumsWeight(t *testing.T) {
	bed := model.TruckBed{Length: 403, Width: 220}
	a := unitAt("a", "A", 0, 0, 120, 80)
	a.Spec.WeightKg = 250
	b := unitAt("b", "A", 120, 0, 120, 80)
	b.Spec.WeightKg = 400.5

	m := Analyze([]model.CargoUnit{a, b}, bed, model.DefaultSettings())

	assert.InDelta(t, 650.5, m.TotalWeightKg, 0.0001)
}

func TestProbe_MeasuresToNearestObstacles(t *testing.T) {
	bed := model.TruckBed{Length: 403, Width: 220}
	units := []model.CargoUnit{
		unitAt("a", "A", 0, 0, 120, 80),
		unitAt("b", "A", 250, 0, 120, 80),
		unitAt("c", "A", 130, 150, 60, 60),
	}

	res := Probe(units, bed, model.Point{X: 185, Y: 35}, model.DefaultSettings())

	assert.Equal(t, model.Point{X: 180, Y: 30}, res.Point, "probe snaps to the grid")
	assert.False(t, res.Occupied)
	assert.Equal(t, 60, res.Left)
	assert.Equal(t, 70, res.Right)
	assert.Equal(t, 30, res.Up)
	assert.Equal(t, 120, res.Down)
	assert.Equal(t, 130, res.Horizontal)
	assert.Equal(t, 150, res.Vertical)
}

func TestProbe_InsideUnit(t *testing.T) {
	bed := model.TruckBed{Length: 403, Width: 220}
	units := []model.CargoUnit{unitAt("a", "A", 0, 0, 120, 80)}

	res := Probe(units, bed, model.Point{X: 10, Y: 10}, model.DefaultSettings())

	assert.True(t, res.Occupied)
	assert.Zero(t, res.Horizontal)
	assert.Zero(t, res.Vertical)
}

func TestProbe_EmptyBedReachesWalls(t *testing.T) {
	bed := model.TruckBed{Length: 403, Width: 220}

	res := Probe(nil, bed, model.Point{X: 0, Y: 0}, model.DefaultSettings())

	assert.Equal(t, 403, res.Horizontal)
	assert.Equal(t, 220, res.Vertical)
}

func TestProbe_IgnoresOverflow(t *testing.T) {
	bed := model.TruckBed{Length: 403, Width: 220}
	ghost := unitAt("g", "A", 0, 0, 120, 80)
	ghost.IsOverflow = true

	res := Probe([]model.CargoUnit{ghost}, bed, model.Point{X: 10, Y: 10}, model.DefaultSettings())

	assert.False(t, res.Occupied)
	assert.Equal(t, 403, res.Horizontal)
}
