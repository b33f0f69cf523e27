package scene

import (
	"errors"
	"math"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/zeusync/gravityfield/internal/core/gravity"
)

// DefaultPriority is the priority of areas that do not declare one.
const DefaultPriority = -1

var (
	ErrInvalidArea   = errors.New("invalid area")
	ErrAreaNotFound  = errors.New("area not found")
	ErrDuplicateArea = errors.New("area already registered")
)

var _ gravity.Area = (*Area)(nil)

// Area is a placed gravity volume with its shape parameters. The placement
// may change through Registry.Move while queries read it.
type Area struct {
	ID       uuid.UUID
	Label    string
	Category string
	Params   map[string]float64
	Volume   Volume

	mu        sync.RWMutex
	transform gravity.Placement

	priority int
	seq      uint64
	bounds   rtreego.Rect
}

// NewArea creates an area with a fresh ID and the default priority.
func NewArea(category string, transform gravity.Placement, volume Volume, params map[string]float64) *Area {
	return &Area{
		ID:        uuid.New(),
		Category:  category,
		Params:    params,
		Volume:    volume,
		transform: transform,
		priority:  DefaultPriority,
	}
}

// WithPriority sets the priority and returns the area.
func (a *Area) WithPriority(p int) *Area {
	a.priority = p
	return a
}

// WithLabel sets the display name and returns the area.
func (a *Area) WithLabel(label string) *Area {
	a.Label = label
	return a
}

func (a *Area) Name() string {
	if a.Label != "" {
		return a.Label
	}
	return a.Category + "/" + a.ID.String()
}

func (a *Area) Priority() int { return a.priority }

func (a *Area) InVolume(world mgl64.Vec3) bool {
	local, ok := a.Placement().PointToLocal(world)
	if !ok {
		return false
	}
	return a.Volume.Contains(local)
}

func (a *Area) Param(name string) (float64, bool) {
	v, ok := a.Params[name]
	return v, ok
}

func (a *Area) Placement() gravity.Placement {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.transform
}

func (a *Area) setPlacement(p gravity.Placement) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.transform = p
}

// Bounds is the world-space bounding box used by the registry index.
func (a *Area) Bounds() rtreego.Rect { return a.bounds }

// worldBounds computes the axis-aligned box around the rotated local extent.
func (a *Area) worldBounds() (rtreego.Rect, bool, error) {
	half, ok := a.Volume.Extent()
	if !ok {
		return rtreego.Rect{}, false, nil
	}
	place := a.Placement()
	rot := place.Rotation
	if rot == (mgl64.Mat3{}) {
		rot = mgl64.Ident3()
	}
	lo := make(rtreego.Point, 3)
	lengths := make([]float64, 3)
	for row := 0; row < 3; row++ {
		var h float64
		for col := 0; col < 3; col++ {
			h += math.Abs(rot.At(row, col)) * half[col]
		}
		h = math.Max(h, minHalfExtent)
		lo[row] = place.Translation[row] - h
		lengths[row] = 2 * h
	}
	r, err := rtreego.NewRect(lo, lengths)
	if err != nil {
		return rtreego.Rect{}, false, err
	}
	return r, true, nil
}

const minHalfExtent = 1e-6
