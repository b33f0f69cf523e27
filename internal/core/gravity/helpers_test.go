package gravity

import (
	"github.com/go-gl/mathgl/mgl64"
)

type fakeArea struct {
	name      string
	priority  int
	params    map[string]float64
	placement Placement
	// contains decides membership; nil means always inside.
	contains func(mgl64.Vec3) bool
}

func (a *fakeArea) Name() string  { return a.name }
func (a *fakeArea) Priority() int { return a.priority }

func (a *fakeArea) InVolume(p mgl64.Vec3) bool {
	if a.contains == nil {
		return true
	}
	return a.contains(p)
}

func (a *fakeArea) Param(name string) (float64, bool) {
	v, ok := a.params[name]
	return v, ok
}

func (a *fakeArea) Placement() Placement { return a.placement }

func newArea(name string, priority int) *fakeArea {
	return &fakeArea{name: name, priority: priority, placement: Identity(mgl64.Vec3{})}
}

func (a *fakeArea) at(t mgl64.Vec3) *fakeArea {
	a.placement.Translation = t
	return a
}

func (a *fakeArea) rotated(r mgl64.Mat3) *fakeArea {
	a.placement.Rotation = r
	return a
}

func (a *fakeArea) with(name string, v float64) *fakeArea {
	if a.params == nil {
		a.params = make(map[string]float64)
	}
	a.params[name] = v
	return a
}

func (a *fakeArea) never() *fakeArea {
	a.contains = func(mgl64.Vec3) bool { return false }
	return a
}

// within makes the area contain points closer than r to its origin.
func (a *fakeArea) within(r float64) *fakeArea {
	a.contains = func(p mgl64.Vec3) bool {
		return p.Sub(a.placement.Translation).Len() <= r
	}
	return a
}

type fakeActor struct {
	id  string
	pos mgl64.Vec3
}

func (a *fakeActor) ID() string           { return a.id }
func (a *fakeActor) Position() mgl64.Vec3 { return a.pos }

// categoryFinder serves areas by category name, ignoring the actor.
type categoryFinder map[string][]Area

func (f categoryFinder) FindAreas(_ Actor, category string) []Area {
	return f[category]
}

func (f categoryFinder) add(k Kind, areas ...Area) categoryFinder {
	f[k.Category()] = append(f[k.Category()], areas...)
	return f
}

func member(a Area, k Kind) Member {
	return Member{Area: a, Kind: k}
}

// vecApprox compares with an absolute tolerance; mgl64's relative check is
// too strict next to zero components.
func vecApprox(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() <= 1e-9
}
