package scene

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/gravityfield/internal/core/gravity"
)

func sphereArea(label, category string, at mgl64.Vec3, r float64) *Area {
	return NewArea(category, gravity.Identity(at), Sphere{Radius: r}, nil).WithLabel(label)
}

func names(areas []gravity.Area) []string {
	out := make([]string, len(areas))
	for i, a := range areas {
		out[i] = a.Name()
	}
	return out
}

func TestRegistryFindAreasFiltersByCategoryAndBounds(t *testing.T) {
	reg := NewRegistry()
	point := gravity.KindPoint.Category()
	cube := gravity.KindCube.Category()

	require.NoError(t, reg.Add(sphereArea("p1", point, mgl64.Vec3{}, 5)))
	require.NoError(t, reg.Add(sphereArea("c1", cube, mgl64.Vec3{}, 5)))
	require.NoError(t, reg.Add(sphereArea("p2", point, mgl64.Vec3{1, 0, 0}, 5)))
	require.NoError(t, reg.Add(sphereArea("far", point, mgl64.Vec3{100, 0, 0}, 5)))

	actor := NewActor("a", mgl64.Vec3{0.5, 0, 0})
	assert.Equal(t, []string{"p1", "p2"}, names(reg.FindAreas(actor, point)))
	assert.Equal(t, []string{"c1"}, names(reg.FindAreas(actor, cube)))
	assert.Empty(t, reg.FindAreas(actor, gravity.KindDisk.Category()))
}

func TestRegistryFindAreasKeepsInsertionOrderWithUnbounded(t *testing.T) {
	reg := NewRegistry()
	point := gravity.KindParallel.Category()

	first := NewArea(point, gravity.Identity(mgl64.Vec3{}), Everywhere{}, nil).WithLabel("world")
	require.NoError(t, reg.Add(sphereArea("b", point, mgl64.Vec3{}, 2)))
	require.NoError(t, reg.Add(first))
	require.NoError(t, reg.Add(sphereArea("c", point, mgl64.Vec3{}, 2)))

	got := reg.FindAreas(NewActor("a", mgl64.Vec3{}), point)
	assert.Equal(t, []string{"b", "world", "c"}, names(got))

	got = reg.FindAreas(NewActor("a", mgl64.Vec3{1000, 0, 0}), point)
	assert.Equal(t, []string{"world"}, names(got))
}

func TestRegistryRotatedBounds(t *testing.T) {
	reg := NewRegistry()
	cat := gravity.KindCube.Category()
	// a long thin box rotated 90 degrees about Z lies along Y
	box := NewArea(cat, gravity.NewPlacement(mgl64.Vec3{}, mgl64.Vec3{0, 0, 90}), Box{HalfExtents: mgl64.Vec3{10, 0.5, 0.5}}, nil)
	require.NoError(t, reg.Add(box))

	assert.Len(t, reg.FindAreas(NewActor("a", mgl64.Vec3{0, 9, 0}), cat), 1)
	assert.Empty(t, reg.FindAreas(NewActor("a", mgl64.Vec3{9, 0, 0}), cat))
	assert.True(t, box.InVolume(mgl64.Vec3{0, 9, 0}))
}

func TestRegistryMoveAndRemove(t *testing.T) {
	reg := NewRegistry()
	cat := gravity.KindPoint.Category()
	a := sphereArea("moving", cat, mgl64.Vec3{}, 1)
	require.NoError(t, reg.Add(a))

	here := NewActor("a", mgl64.Vec3{})
	there := NewActor("b", mgl64.Vec3{50, 0, 0})
	assert.Len(t, reg.FindAreas(here, cat), 1)

	require.NoError(t, reg.Move(a.ID, gravity.Identity(mgl64.Vec3{50, 0, 0})))
	assert.Empty(t, reg.FindAreas(here, cat))
	assert.Len(t, reg.FindAreas(there, cat), 1)

	require.NoError(t, reg.Remove(a.ID))
	assert.Empty(t, reg.FindAreas(there, cat))
	assert.Equal(t, 0, reg.Len())

	assert.ErrorIs(t, reg.Remove(a.ID), ErrAreaNotFound)
	assert.ErrorIs(t, reg.Move(uuid.New(), gravity.Identity(mgl64.Vec3{})), ErrAreaNotFound)
}

func TestRegistryAddValidates(t *testing.T) {
	reg := NewRegistry()
	assert.ErrorIs(t, reg.Add(nil), ErrInvalidArea)
	assert.ErrorIs(t, reg.Add(sphereArea("x", "", mgl64.Vec3{}, 1)), ErrInvalidArea)
	assert.ErrorIs(t, reg.Add(NewArea("GravityPointArea", gravity.Identity(mgl64.Vec3{}), nil, nil)), ErrInvalidArea)

	a := sphereArea("dup", gravity.KindPoint.Category(), mgl64.Vec3{}, 1)
	require.NoError(t, reg.Add(a))
	assert.ErrorIs(t, reg.Add(a), ErrDuplicateArea)

	got, ok := reg.Get(a.ID)
	require.True(t, ok)
	assert.Same(t, a, got)
}

func TestAreaDefaults(t *testing.T) {
	a := NewArea("GravityCubeArea", gravity.Identity(mgl64.Vec3{}), Sphere{Radius: 1}, map[string]float64{gravity.ParamRadius: 2})
	assert.Equal(t, DefaultPriority, a.Priority())
	assert.Equal(t, "GravityCubeArea/"+a.ID.String(), a.Name())

	r, ok := a.Param(gravity.ParamRadius)
	assert.True(t, ok)
	assert.Equal(t, 2.0, r)
	_, ok = a.Param(gravity.ParamHeight)
	assert.False(t, ok)

	assert.Equal(t, 7, a.WithPriority(7).Priority())
}

func TestRegistryDrivesDirector(t *testing.T) {
	reg := NewRegistry()
	planet := sphereArea("planet", gravity.KindPoint.Category(), mgl64.Vec3{0, -10, 0}, 20).WithPriority(1)
	require.NoError(t, reg.Add(planet))
	require.NoError(t, reg.Add(NewArea(gravity.KindParallel.Category(), gravity.Identity(mgl64.Vec3{}), Everywhere{}, nil)))

	d, err := gravity.NewDirector(reg, gravity.DefaultConfig(), nil)
	require.NoError(t, err)

	// inside the planet's sphere the point area outranks the default-priority world area
	g, err := d.QueryGravity(NewActor("a", mgl64.Vec3{10, -10, 0}))
	require.NoError(t, err)
	assert.InDeltaf(t, 0, g.Sub(mgl64.Vec3{-1, 0, 0}).Len(), 1e-9, "got %v", g)

	g, err = d.QueryGravity(NewActor("b", mgl64.Vec3{100, 0, 0}))
	require.NoError(t, err)
	assert.InDeltaf(t, 0, g.Sub(mgl64.Vec3{0, -1, 0}).Len(), 1e-9, "got %v", g)
}

// Run with -race: Move rewrites placements that in-flight queries read.
func TestRegistryMoveDuringQueries(t *testing.T) {
	reg := NewRegistry()
	cat := gravity.KindCube.Category()
	cube := NewArea(cat, gravity.Identity(mgl64.Vec3{}), Sphere{Radius: 50}, map[string]float64{gravity.ParamRadius: 1})
	require.NoError(t, reg.Add(cube))

	d, err := gravity.NewDirector(reg, gravity.DefaultConfig(), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			angle := float64(i % 360)
			assert.NoError(t, reg.Move(cube.ID, gravity.NewPlacement(mgl64.Vec3{0, 0, float64(i%3) * 0.1}, mgl64.Vec3{0, 0, angle})))
		}
	}()
	go func() {
		defer wg.Done()
		actor := NewActor("a", mgl64.Vec3{5, 0, 0})
		for _i := 0; _i < 2000; _i++ {
			g, err := d.QueryGravity(actor)
			if assert.NoError(t, err) {
				assert.InDelta(t, 1.0, g.Len(), 1e-9)
			}
		}
	}()
	wg.Wait()
}
