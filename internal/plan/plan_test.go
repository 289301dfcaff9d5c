package plan

import (
	"bytes"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadPlan/internal/model"
)

var van = model.TruckBed{Length: 403, Width: 220}

func pickup(id string, order int, owner string, count int) model.Stop {
	return model.Stop{ID: id, OrderIndex: order, OwnerID: owner, Kind: model.StopPickup, Count: count}
}

func delivery(id string, order int, owner string, count int) model.Stop {
	return model.Stop{ID: id, OrderIndex: order, OwnerID: owner, Kind: model.StopDelivery, Count: count}
}

func countOwner(units []model.CargoUnit, owner string) int {
	n := 0
	for _, u := range units {
		if u.OwnerID == owner {
			n++
		}
	}
	return n
}

func assertNoOverlap(t *testing.T, units []model.CargoUnit) {
	t.Helper()
	for i := range units {
		for j := i + 1; j < len(units); j++ {
			a, b := units[i], units[j]
			if a.IsOverflow || b.IsOverflow || a.HasConflict || b.HasConflict {
				continue
			}
			assert.False(t, a.Rect.Overlaps(b.Rect), "%s overlaps %s", a.ID, b.ID)
		}
	}
}

func TestSetRoute_CreatesUnitsInOwnerOrder(t *testing.T) {
	p := New(van)

	require.NoError(t, p.SetRoute([]model.Stop{
		pickup("s2", 1, "B", 1),
		pickup("s1", 0, "A", 2),
	}))

	units := p.Units()
	require.Len(t, units, 3)
	assert.Equal(t, "A", units[0].OwnerID)
	assert.Equal(t, "A", units[1].OwnerID)
	assert.Equal(t, "B", units[2].OwnerID)
	assert.Equal(t, model.Rect{X: 0, Y: 0, W: 120, H: 80}, units[0].Rect)
	assertNoOverlap(t, units)
}

func TestSetRoute_KeepsExistingPositions(t *testing.T) {
	p := New(van)
	require.NoError(t, p.SetRoute([]model.Stop{pickup("s1", 0, "A", 1)}))
	first := p.Units()[0]

	moved, err := p.Move(first.ID, model.Point{X: 200, Y: 100})
	require.NoError(t, err)

	require.NoError(t, p.SetRoute([]model.Stop{
		pickup("s1", 0, "A", 1),
		pickup("s2", 1, "B", 1),
	}))

	got, err := p.Unit(first.ID)
	require.NoError(t, err)
	assert.Equal(t, moved.Rect, got.Rect, "matching unit is not re-placed")
	assert.Len(t, p.Units(), 2)
}

func TestSetRoute_TrimsSurplusFromTail(t *testing.T) {
	p := New(van)
	require.NoError(t, p.SetRoute([]model.Stop{pickup("s1", 0, "A", 3)}))
	before := p.Units()

	require.NoError(t, p.SetRoute([]model.Stop{pickup("s1", 0, "A", 1)}))

	after := p.Units()
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID)
}

func TestSetRoute_DropsOwnersNoLongerDemanded(t *testing.T) {
	p := New(van)
	require.NoError(t, p.SetRoute([]model.Stop{
		pickup("s1", 0, "A", 1),
		pickup("s2", 1, "B", 2),
	}))
	_, err := p.AddCustom(model.PalletSpec{Width: 60, Height: 40}, "")
	require.NoError(t, err)

	require.NoError(t, p.SetRoute([]model.Stop{pickup("s1", 0, "A", 1)}))

	units := p.Units()
	assert.Equal(t, 1, countOwner(units, "A"))
	assert.Equal(t, 0, countOwner(units, "B"))
	assert.Equal(t, 1, countOwner(units, model.CustomOwner), "custom units survive route changes")
}

func TestSetRoute_ReplacesChangedFootprint(t *testing.T) {
	p := New(van)
	require.NoError(t, p.SetRoute([]model.Stop{pickup("s1", 0, "A", 1)}))
	id := p.Units()[0].ID

	half := model.PalletSpec{Width: 80, Height: 60}
	require.NoError(t, p.SetRoute([]model.Stop{
		{ID: "s1", OrderIndex: 0, OwnerID: "A", Kind: model.StopPickup, Pallets: []model.PalletSpec{half}},
	}))

	got, err := p.Unit(id)
	require.NoError(t, err)
	assert.Equal(t, half, got.Spec)
	assert.Equal(t, model.Rect{X: 0, Y: 0, W: 80, H: 60}, got.Rect)
	assert.False(t, got.IsOverflow)
}

func TestSetRoute_InvalidRouteLeavesPlanUntouched(t *testing.T) {
	p := New(van)
	require.NoError(t, p.SetRoute([]model.Stop{pickup("s1", 0, "A", 2)}))

	err := p.SetRoute([]model.Stop{
		{ID: "bad", OwnerID: "A", Kind: model.StopPickup, Pallets: []model.PalletSpec{{Width: 0, Height: 80}}},
	})

	assert.ErrorIs(t, err, model.ErrInvalidGeometry)
	assert.Len(t, p.Units(), 2)
}

func TestSetRoute_OverflowWhenBedIsFull(t *testing.T) {
	p := New(van)

	require.NoError(t, p.SetRoute([]model.Stop{pickup("s1", 0, "A", 9)}))

	assert.Len(t, p.Units(), 9)
	assert.Len(t, p.Overflow(), 3)
	assertNoOverlap(t, p.Units())
}

func TestMove_ResolvesCollision(t *testing.T) {
	p := New(model.TruckBed{Length: 240, Width: 80})
	require.NoError(t, p.SetRoute([]model.Stop{pickup("s1", 0, "A", 1)}))
	u := p.Units()[0]

	got, err := p.Move(u.ID, model.Point{X: 113, Y: 0})

	require.NoError(t, err)
	assert.Equal(t, model.Point{X: 110, Y: 0}, got.Rect.Origin())
	assert.False(t, got.HasConflict)
}

func TestMove_ForcedWhenNoRoom(t *testing.T) {
	p := New(model.TruckBed{Length: 120, Width: 80})
	require.NoError(t, p.SetRoute([]model.Stop{pickup("s1", 0, "A", 2)}))
	over := p.Overflow()
	require.Len(t, over, 1)

	got, err := p.Move(over[0].ID, model.Point{X: 40, Y: 20})

	require.NoError(t, err)
	assert.True(t, got.HasConflict)
	assert.False(t, got.IsOverflow, "dragging puts the unit back on the bed")
	assert.Equal(t, model.Point{X: 0, Y: 0}, got.Rect.Origin())
}

func TestMove_UnknownUnit(t *testing.T) {
	p := New(van)

	_, err := p.Move("nope", model.Point{})

	assert.ErrorIs(t, err, model.ErrUnitNotFound)
}

func TestRotate_InPlaceWhenFree(t *testing.T) {
	p := New(van)
	require.NoError(t, p.SetRoute([]model.Stop{pickup("s1", 0, "A", 1)}))
	u := p.Units()[0]

	got, err := p.Rotate(u.ID)

	require.NoError(t, err)
	assert.True(t, got.Rotated)
	assert.Equal(t, model.Rect{X: 0, Y: 0, W: 80, H: 120}, got.Rect)
	assert.False(t, got.HasConflict)

	back, err := p.Rotate(u.ID)
	require.NoError(t, err)
	assert.False(t, back.Rotated)
	assert.Equal(t, model.Rect{X: 0, Y: 0, W: 120, H: 80}, back.Rect)
}

func TestRotate_MovesWhenBlocked(t *testing.T) {
	bed := model.TruckBed{Length: 240, Width: 200}
	p := New(bed)
	require.NoError(t, p.SetRoute([]model.Stop{pickup("s1", 0, "A", 3)}))
	units := p.Units()
	require.Equal(t, model.Point{X: 0, Y: 80}, units[2].Rect.Origin())

	got, err := p.Rotate(units[0].ID)

	require.NoError(t, err)
	assert.True(t, got.Rotated)
	assert.False(t, got.HasConflict)
	assert.Equal(t, model.Rect{X: 120, Y: 80, W: 80, H: 120}, got.Rect)
	assert.True(t, got.Rect.Within(bed.Rect()))
	assertNoOverlap(t, p.Units())
}

func TestMove_OversizedUnitStaysOverflow(t *testing.T) {
	bed := model.TruckBed{Length: 400, Width: 200}
	p := New(bed)
	u, err := p.AddCustom(model.PalletSpec{Width: 500, Height: 80}, "Long load")
	require.NoError(t, err)
	require.True(t, u.IsOverflow)

	got, err := p.Move(u.ID, model.Point{X: 0, Y: 0})

	require.NoError(t, err)
	assert.True(t, got.IsOverflow)
	assert.True(t, got.HasConflict)
	assert.Len(t, p.Overflow(), 1)
	for _, v := range p.Units() {
		if !v.IsOverflow {
			assert.True(t, v.Rect.Within(bed.Rect()), "%s left the bed: %+v", v.ID, v.Rect)
		}
	}
}

func TestRotate_RefusedWhenFootprintExceedsBed(t *testing.T) {
	bed := model.TruckBed{Length: 130, Width: 100}
	p := New(bed)
	u, err := p.AddCustom(model.PalletSpec{Width: 120, Height: 80}, "")
	require.NoError(t, err)
	require.False(t, u.IsOverflow)

	got, err := p.Rotate(u.ID)

	assert.ErrorIs(t, err, model.ErrDoesNotFit)
	assert.Equal(t, u, got)
	stored, err := p.Unit(u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Rect{X: 0, Y: 0, W: 120, H: 80}, stored.Rect)
	assert.False(t, stored.Rotated)
	assert.True(t, stored.Rect.Within(bed.Rect()))
}

func TestRestoreOverflow_PlacesWhenRoomAppears(t *testing.T) {
	p := New(model.TruckBed{Length: 120, Width: 80})
	require.NoError(t, p.SetRoute([]model.Stop{pickup("s1", 0, "A", 2)}))
	over := p.Overflow()
	require.Len(t, over, 1)

	still, err := p.RestoreOverflow(over[0].ID)
	require.NoError(t, err)
	assert.True(t, still.IsOverflow)

	for _, u := range p.Units() {
		if !u.IsOverflow {
			require.NoError(t, p.Remove(u.ID))
		}
	}
	got, err := p.RestoreOverflow(over[0].ID)
	require.NoError(t, err)
	assert.False(t, got.IsOverflow)
	assert.Empty(t, p.Overflow())
}

func TestRemoveOwner(t *testing.T) {
	p := New(van)
	require.NoError(t, p.SetRoute([]model.Stop{
		pickup("s1", 0, "A", 2),
		pickup("s2", 1, "B", 1),
	}))

	n, err := p.RemoveOwner("A")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, countOwner(p.Units(), "A"))

	_, err = p.RemoveOwner("A")
	assert.ErrorIs(t, err, model.ErrOwnerNotFound)
}

func TestAddCustom(t *testing.T) {
	p := New(van)

	u, err := p.AddCustom(model.PalletSpec{Width: 60, Height: 40}, "")
	require.NoError(t, err)
	assert.True(t, u.IsCustom())
	assert.Equal(t, "Custom 60x40", u.Label)

	_, err = p.AddCustom(model.PalletSpec{Width: -1, Height: 40}, "bad")
	assert.ErrorIs(t, err, model.ErrInvalidGeometry)
}

func TestProjectAndTimeline(t *testing.T) {
	p := New(van)
	require.NoError(t, p.SetRoute([]model.Stop{
		pickup("p1", 0, "A", 2),
		pickup("p2", 1, "B", 1),
		delivery("d1", 2, "A", 2),
	}))

	aboard, err := p.Project("d1")
	require.NoError(t, err)
	assert.Len(t, aboard, 1)

	_, err = p.Project("missing")
	assert.ErrorIs(t, err, model.ErrStopNotFound)

	tl := p.Timeline()
	require.Len(t, tl, 3)
	assert.Len(t, tl[0].Units, 2)
	assert.Len(t, tl[1].Units, 3)
	assert.Len(t, tl[2].Units, 1)
}

func TestAnalyzeAndProbe(t *testing.T) {
	p := New(model.TruckBed{Length: 360, Width: 240})
	require.NoError(t, p.SetRoute([]model.Stop{pickup("p1", 0, "A", 1)}))

	m := p.Analyze()
	assert.Equal(t, 1, m.UsedSlots)
	assert.Equal(t, 9, m.CapacitySlots)

	pr := p.Probe(model.Point{X: 200, Y: 40})
	assert.False(t, pr.Occupied)
	assert.Equal(t, 80, pr.Left)
}

func TestRestore_KeepsSavedPositions(t *testing.T) {
	p := New(van)
	stops := []model.Stop{pickup("p1", 0, "A", 1)}
	u := model.NewCargoUnit("A", model.PalletSpec{Width: 120, Height: 80}, "A", "#4CAF50")
	u.Rect = u.Rect.At(model.Point{X: 250, Y: 100})

	require.NoError(t, p.Restore(stops, []model.CargoUnit{u}))

	got, err := p.Unit(u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Point{X: 250, Y: 100}, got.Rect.Origin())
	assert.Len(t, p.Stops(), 1)
	assert.Contains(t, p.Demand(), "A")
}

func TestState_ReturnsRouteAndUnits(t *testing.T) {
	p := New(van)
	require.NoError(t, p.SetRoute([]model.Stop{
		delivery("d1", 1, "A", 1),
		pickup("p1", 0, "A", 2),
	}))

	stops, units := p.State()

	require.Len(t, stops, 2)
	assert.Equal(t, "p1", stops[0].ID)
	assert.Len(t, units, 2)
	units[0].Rect.X = 999
	assert.NotEqual(t, 999, p.Units()[0].Rect.X)
}

func TestPlan_LogsFlagChanges(t *testing.T) {
	var buf bytes.Buffer
	p := New(model.TruckBed{Length: 120, Width: 80}, WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	require.NoError(t, p.SetRoute([]model.Stop{pickup("s1", 0, "A", 2)}))

	assert.Contains(t, buf.String(), "unit flags changed")
	assert.Contains(t, buf.String(), "route reconciled")
}

func TestPlan_ConcurrentAccess(t *testing.T) {
	p := New(model.TruckBed{Length: 1360, Width: 248})
	require.NoError(t, p.SetRoute([]model.Stop{pickup("s1", 0, "A", 10)}))
	ids := make([]string, 0)
	for _, u := range p.Units() {
		ids = append(ids, u.ID)
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(2)
		go func(id string, x int) {
			defer wg.Done()
			_, _ = p.Move(id, model.Point{X: x, Y: 0})
		}(id, i*100)
		go func() {
			defer wg.Done()
			_ = p.Analyze()
			_ = p.Units()
		}()
	}
	wg.Wait()

	assert.Len(t, p.Units(), 10)
	for _, u := range p.Units() {
		assert.True(t, u.Rect.Within(model.TruckBed{Length: 1360, Width: 248}.Rect()))
	}
}
