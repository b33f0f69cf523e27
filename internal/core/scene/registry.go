package scene

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/zeusync/gravityfield/internal/core/gravity"
)

const (
	treeMinChildren = 3
	treeMaxChildren = 16
	queryTolerance  = 0.005
)

var _ gravity.Finder = (*Registry)(nil)

// Registry stores areas by category and answers category lookups with an
// R-tree prefilter on the actor position. Results keep insertion order.
type Registry struct {
	mu        sync.RWMutex
	tree      *rtreego.Rtree
	unbounded []*Area
	byID      map[uuid.UUID]*Area
	seq       uint64
}

func NewRegistry() *Registry {
	return &Registry{
		tree: rtreego.NewTree(3, treeMinChildren, treeMaxChildren),
		byID: make(map[uuid.UUID]*Area),
	}
}

// Add registers an area, assigning an ID when it has none.
func (r *Registry) Add(a *Area) error {
	if a == nil {
		return fmt.Errorf("%w: nil area", ErrInvalidArea)
	}
	if a.Category == "" {
		return fmt.Errorf("%w: empty category", ErrInvalidArea)
	}
	if err := validateVolume(a.Volume); err != nil {
		return err
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[a.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateArea, a.ID)
	}
	r.seq++
	a.seq = r.seq
	if err := r.index(a); err != nil {
		return err
	}
	r.byID[a.ID] = a
	return nil
}

// Remove unregisters an area.
func (r *Registry) Remove(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAreaNotFound, id)
	}
	r.unindex(a)
	delete(r.byID, id)
	return nil
}

// Move replaces an area's placement and reindexes it.
func (r *Registry) Move(id uuid.UUID, placement gravity.Placement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAreaNotFound, id)
	}
	r.unindex(a)
	a.setPlacement(placement)
	return r.index(a)
}

func (r *Registry) Get(id uuid.UUID) (*Area, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	return a, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

// FindAreas returns the areas of category whose bounds contain the actor.
func (r *Registry) FindAreas(actor gravity.Actor, category string) []gravity.Area {
	pos := actor.Position()
	query, err := rtreego.NewRect(
		rtreego.Point{pos.X() - queryTolerance, pos.Y() - queryTolerance, pos.Z() - queryTolerance},
		[]float64{2 * queryTolerance, 2 * queryTolerance, 2 * queryTolerance},
	)
	if err != nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.tree.SearchIntersect(query, func(_ []rtreego.Spatial, obj rtreego.Spatial) (bool, bool) {
		return obj.(*Area).Category != category, false
	})

	found := make([]*Area, 0, len(matches))
	for _, m := range matches {
		found = append(found, m.(*Area))
	}
	for _, a := range r.unbounded {
		if a.Category == category {
			found = append(found, a)
		}
	}
	slices.SortFunc(found, byInsertion)

	out := make([]gravity.Area, len(found))
	for i, a := range found {
		out[i] = a
	}
	return out
}

// Areas returns every registered area in insertion order.
func (r *Registry) Areas() []*Area {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Area, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	slices.SortFunc(out, byInsertion)
	return out
}

func byInsertion(x, y *Area) int { return cmp.Compare(x.seq, y.seq) }

func (r *Registry) index(a *Area) error {
	bounds, bounded, err := a.worldBounds()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArea, err)
	}
	if !bounded {
		r.unbounded = append(r.unbounded, a)
		return nil
	}
	a.bounds = bounds
	r.tree.Insert(a)
	return nil
}

func (r *Registry) unindex(a *Area) {
	if _, bounded := a.Volume.Extent(); !bounded {
		r.unbounded = slices.DeleteFunc(r.unbounded, func(x *Area) bool { return x == a })
		return
	}
	r.tree.Delete(a)
}

// Actor is a minimal gravity.Actor.
type Actor struct {
	Name string
	Pos  mgl64.Vec3
}

var _ gravity.Actor = (*Actor)(nil)

func NewActor(name string, pos mgl64.Vec3) *Actor {
	return &Actor{Name: name, Pos: pos}
}

func (a *Actor) ID() string { return a.Name }

func (a *Actor) Position() mgl64.Vec3 { return a.Pos }
