package gravity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Parameter names read from areas.
const (
	ParamRadius        = "Radius"
	ParamHeight        = "Height"
	ParamValidAngleDeg = "ValidAngleDeg"
)

// DefaultPriorityFloor is the threshold a fresh selection starts from.
const DefaultPriorityFloor = -100

// Area is a gravity volume owned by the surrounding engine. Implementations
// must be comparable, typically pointers, since selections track areas by identity.
type Area interface {
	Name() string
	Priority() int
	// InVolume reports whether a world position lies inside the area.
	InVolume(world mgl64.Vec3) bool
	// Param looks up a named shape parameter.
	Param(name string) (float64, bool)
	Placement() Placement
}

// Actor is anything gravity is resolved for.
type Actor interface {
	ID() string
	Position() mgl64.Vec3
}

// Finder returns the areas of one category that may be relevant to an actor.
// Results may be spatially pre-filtered; order is preserved by the selector.
type Finder interface {
	FindAreas(actor Actor, category string) []Area
}

// FinderFunc adapts a function to Finder.
type FinderFunc func(actor Actor, category string) []Area

func (f FinderFunc) FindAreas(actor Actor, category string) []Area { return f(actor, category) }

// Placement maps between world space and an area's local frame.
// A zero Rotation is treated as identity.
type Placement struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Mat3
}

// Identity returns an unrotated placement at t.
func Identity(t mgl64.Vec3) Placement {
	return Placement{Translation: t, Rotation: mgl64.Ident3()}
}

// NewPlacement builds a placement from a translation and XYZ euler angles in degrees.
func NewPlacement(t mgl64.Vec3, eulerDeg mgl64.Vec3) Placement {
	q := mgl64.AnglesToQuat(
		mgl64.DegToRad(eulerDeg[0]),
		mgl64.DegToRad(eulerDeg[1]),
		mgl64.DegToRad(eulerDeg[2]),
		mgl64.XYZ,
	)
	return Placement{Translation: t, Rotation: q.Mat4().Mat3()}
}

func (p Placement) rotation() mgl64.Mat3 {
	if p.Rotation == (mgl64.Mat3{}) {
		return mgl64.Ident3()
	}
	return p.Rotation
}

// ToWorld rotates a local direction into world axes.
func (p Placement) ToWorld(v mgl64.Vec3) mgl64.Vec3 {
	return p.rotation().Mul3x1(v)
}

// ToLocal rotates a world direction into local axes. It reports false when
// the rotation is singular.
func (p Placement) ToLocal(v mgl64.Vec3) (mgl64.Vec3, bool) {
	r := p.rotation()
	if math.Abs(r.Det()) < singularDet {
		return mgl64.Vec3{}, false
	}
	return r.Inv().Mul3x1(v), true
}

// PointToLocal expresses a world position relative to the placement origin in local axes.
func (p Placement) PointToLocal(world mgl64.Vec3) (mgl64.Vec3, bool) {
	return p.ToLocal(world.Sub(p.Translation))
}

const singularDet = 1e-12
