package plan

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadPlan/internal/model"
)

func TestFleet_OpenReusesPlan(t *testing.T) {
	f := NewFleet(model.DefaultSettings(), zerolog.Nop())
	v := model.NewVehicleProfile("Van", 403, 220, 1100)

	p1, err := f.Open(v)
	require.NoError(t, err)
	p2, err := f.Open(v)
	require.NoError(t, err)

	assert.Same(t, p1, p2)
	assert.Equal(t, v.Bed, p1.Bed())
}

func TestFleet_PlansAreIndependent(t *testing.T) {
	f := NewFleet(model.DefaultSettings(), zerolog.Nop())
	small := model.NewVehicleProfile("Small", 120, 80, 0)
	large := model.NewVehicleProfile("Large", 403, 220, 0)

	ps, err := f.Open(small)
	require.NoError(t, err)
	pl, err := f.Open(large)
	require.NoError(t, err)

	route := []model.Stop{pickup("s1", 0, "A", 2)}
	require.NoError(t, ps.SetRoute(route))
	require.NoError(t, pl.SetRoute(route))

	assert.Len(t, ps.Overflow(), 1)
	assert.Empty(t, pl.Overflow())

	ids := f.Vehicles()
	require.Len(t, ids, 2)
	assert.True(t, ids[0] < ids[1])

	got, ok := f.Get(small.ID)
	require.True(t, ok)
	assert.Same(t, ps, got)

	f.Close(small.ID)
	_, ok = f.Get(small.ID)
	assert.False(t, ok)
	assert.Equal(t, []string{large.ID}, f.Vehicles())
}

func TestFleet_RejectsEmptyBed(t *testing.T) {
	f := NewFleet(model.DefaultSettings(), zerolog.Nop())

	_, err := f.Open(model.VehicleProfile{ID: "x", Name: "Broken"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidGeometry))
}
