package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Volume is a containment shape expressed in an area's local frame.
type Volume interface {
	Contains(local mgl64.Vec3) bool
	// Extent is the local half-size of the bounding box; ok is false for unbounded volumes.
	Extent() (half mgl64.Vec3, ok bool)
}

type Sphere struct {
	Radius float64
}

func (s Sphere) Contains(p mgl64.Vec3) bool {
	return p.Dot(p) <= s.Radius*s.Radius
}

func (s Sphere) Extent() (mgl64.Vec3, bool) {
	return mgl64.Vec3{s.Radius, s.Radius, s.Radius}, true
}

type Box struct {
	HalfExtents mgl64.Vec3
}

func (b Box) Contains(p mgl64.Vec3) bool {
	return math.Abs(p.X()) <= b.HalfExtents.X() &&
		math.Abs(p.Y()) <= b.HalfExtents.Y() &&
		math.Abs(p.Z()) <= b.HalfExtents.Z()
}

func (b Box) Extent() (mgl64.Vec3, bool) {
	return b.HalfExtents, true
}

// Cylinder stands on the local Y axis, centered on the origin.
type Cylinder struct {
	Radius     float64
	HalfHeight float64
}

func (c Cylinder) Contains(p mgl64.Vec3) bool {
	return math.Abs(p.Y()) <= c.HalfHeight && p.X()*p.X()+p.Z()*p.Z() <= c.Radius*c.Radius
}

func (c Cylinder) Extent() (mgl64.Vec3, bool) {
	return mgl64.Vec3{c.Radius, c.HalfHeight, c.Radius}, true
}

// Everywhere contains every point.
type Everywhere struct{}

func (Everywhere) Contains(mgl64.Vec3) bool { return true }

func (Everywhere) Extent() (mgl64.Vec3, bool) { return mgl64.Vec3{}, false }

func validateVolume(v Volume) error {
	if v == nil {
		return fmt.Errorf("%w: nil volume", ErrInvalidArea)
	}
	half, ok := v.Extent()
	if !ok {
		return nil
	}
	for i := 0; i < 3; i++ {
		if half[i] < 0 || math.IsNaN(half[i]) || math.IsInf(half[i], 0) {
			return fmt.Errorf("%w: volume extent %v", ErrInvalidArea, half)
		}
	}
	return nil
}
