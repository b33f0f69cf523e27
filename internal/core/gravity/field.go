package gravity

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EvalOptions tunes the field evaluator.
type EvalOptions struct {
	// Epsilon below which a horizontal distance counts as zero.
	Epsilon float64
	// LocalFrame rotates the displacement into the area frame before the
	// shape formula runs. The default feeds the world-axis displacement.
	LocalFrame bool
}

// Evaluate computes the raw, non-normalized gravity of one selected area at pos.
//
// Every shape except Point works on the displacement from pos to the area
// origin, in world axes unless opts.LocalFrame is set, and returns its result
// rotated by the area orientation. Horizontal distances
// below Epsilon drop the horizontal component instead of dividing by zero.
func Evaluate(pos mgl64.Vec3, m Member, opts EvalOptions) (mgl64.Vec3, error) {
	place := m.Area.Placement()
	dist := place.Translation.Sub(pos)
	if m.Kind == KindPoint {
		return dist, nil
	}

	if opts.LocalFrame {
		local, ok := place.ToLocal(dist)
		if !ok {
			return mgl64.Vec3{}, fmt.Errorf("%s area %q: singular rotation: %w", m.Kind, m.Area.Name(), ErrDegenerateGeometry)
		}
		dist = local
	}

	var g mgl64.Vec3
	switch m.Kind {
	case KindParallel:
		valid, _ := m.Area.Param(ParamValidAngleDeg)
		g = parallelField(dist, valid, opts.Epsilon)
	case KindCube:
		r, err := requireParam(m, ParamRadius)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		g = cubeField(dist, r)
	case KindCone:
		r, err := requireParam(m, ParamRadius)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		h, err := requireParam(m, ParamHeight)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		if h <= 0 {
			return mgl64.Vec3{}, &ParamError{Area: m.Area.Name(), Kind: m.Kind, Param: ParamHeight, Err: ErrInvalidParameter}
		}
		g = coneField(dist, r, h, opts.Epsilon)
	case KindDisk:
		r, err := requireParam(m, ParamRadius)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		g = diskField(dist, r, opts.Epsilon)
	case KindDiskTorus:
		r, err := requireParam(m, ParamRadius)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		g = diskTorusField(dist, r, opts.Epsilon)
	case KindSegment:
		r, err := requireParam(m, ParamRadius)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		g = segmentField(dist, r)
	default:
		return mgl64.Vec3{}, fmt.Errorf("%w: %s", ErrUnknownKind, m.Kind)
	}

	return place.ToWorld(g), nil
}

func requireParam(m Member, name string) (float64, error) {
	v, ok := m.Area.Param(name)
	if !ok {
		return 0, &ParamError{Area: m.Area.Name(), Kind: m.Kind, Param: name, Err: ErrMissingParameter}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParamError{Area: m.Area.Name(), Kind: m.Kind, Param: name, Err: ErrInvalidParameter}
	}
	return v, nil
}

func horizontal(d mgl64.Vec3) float64 {
	return math.Hypot(d.X(), d.Z())
}

// parallelField pulls along local -Y. A positive validDeg restricts the pull
// to the sector whose horizontal angle, measured from +X, is within validDeg.
func parallelField(dist mgl64.Vec3, validDeg, eps float64) mgl64.Vec3 {
	down := mgl64.Vec3{0, -1, 0}
	if validDeg <= 0 {
		return down
	}
	var angle float64
	if h := horizontal(dist); h >= eps {
		angle = mgl64.RadToDeg(math.Acos(mgl64.Clamp(-dist.X()/h, -1, 1)))
	}
	if dist.Z() < 0 {
		angle = 360 - angle
	}
	if angle <= validDeg {
		return down
	}
	return mgl64.Vec3{}
}

// cubeField pushes away from the center inside the cube and pulls toward the
// nearest surface point outside it.
func cubeField(dist mgl64.Vec3, r float64) mgl64.Vec3 {
	if math.Abs(dist.X()) < r && math.Abs(dist.Y()) < r && math.Abs(dist.Z()) < r {
		return dist.Mul(-1)
	}
	closest := mgl64.Vec3{
		mgl64.Clamp(dist.X(), -r, r),
		mgl64.Clamp(dist.Y(), -r, r),
		mgl64.Clamp(dist.Z(), -r, r),
	}
	return dist.Sub(closest)
}

func diskField(dist mgl64.Vec3, r, eps float64) mgl64.Vec3 {
	h := horizontal(dist)
	if h < r || h < eps {
		return mgl64.Vec3{0, dist.Y(), 0}
	}
	return rimField(dist, r, h)
}

func diskTorusField(dist mgl64.Vec3, r, eps float64) mgl64.Vec3 {
	h := horizontal(dist)
	if h < eps {
		return mgl64.Vec3{0, dist.Y(), 0}
	}
	return rimField(dist, r, h)
}

// rimField scales the horizontal part so it points at the rim circle of radius r.
func rimField(dist mgl64.Vec3, r, h float64) mgl64.Vec3 {
	s := 1 - math.Abs(r)/h
	return mgl64.Vec3{dist.X() * s, dist.Y(), dist.Z() * s}
}

func coneField(dist mgl64.Vec3, r, height, eps float64) mgl64.Vec3 {
	if dist.Y() > 0 {
		return mgl64.Vec3{}
	}
	h := horizontal(dist)
	if math.Abs(dist.Y()) > height && h <= math.Abs(r/height*(height+dist.Y())) {
		return mgl64.Vec3{dist.X(), dist.Y() + height, dist.Z()}
	}
	if h < eps {
		return mgl64.Vec3{0, -r, 0}
	}
	return mgl64.Vec3{height * dist.X() / h, -r, height * dist.Z() / h}
}

// segmentField keeps the in-band branch writing dist.y into the Z slot;
// existing content is tuned against it.
func segmentField(dist mgl64.Vec3, r float64) mgl64.Vec3 {
	switch {
	case dist.Y() > r:
		return mgl64.Vec3{dist.X(), dist.Y() + r, dist.Z()}
	case dist.Y() < -r:
		return mgl64.Vec3{dist.X(), dist.Y() - r, dist.Z()}
	default:
		return mgl64.Vec3{dist.X(), 0, dist.Y()}
	}
}
