package gravity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultEpsilon is the magnitude below which vectors count as zero.
const DefaultEpsilon = 1e-9

// Combine folds raw samples into one unit direction, weighting each sample's
// direction by the inverse square of its raw length.
//
// Samples shorter than eps contribute nothing. An empty input returns
// ErrEmptySelection; when nothing usable remains, or the weighted directions
// cancel out, the zero vector is returned with ErrDegenerateGeometry.
func Combine(samples []mgl64.Vec3, eps float64) (mgl64.Vec3, error) {
	if len(samples) == 0 {
		return mgl64.Vec3{}, ErrEmptySelection
	}

	var (
		sum     mgl64.Vec3
		largest float64
	)
	for _, s := range samples {
		l := s.Len()
		if l < eps {
			continue
		}
		w := 1 / (l * l)
		sum = sum.Add(s.Mul(w / l))
		largest = math.Max(largest, w)
	}

	// cancellation is judged relative to the strongest contribution
	l := sum.Len()
	if largest == 0 || l < eps*largest || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}, ErrDegenerateGeometry
	}
	return sum.Mul(1 / l), nil
}
