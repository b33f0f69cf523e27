package gravity

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/gravityfield/internal/core/observability/log"
	"github.com/zeusync/gravityfield/pkg/concurrent"
	"github.com/zeusync/gravityfield/pkg/sharded"
)

// Observer is told when the set of areas selected for an actor changes.
type Observer func(actorID string, prev, next []Member)

type Option func(*Director)

// WithObserver registers an area transition observer.
func WithObserver(o Observer) Option {
	return func(d *Director) { d.observer = o }
}

// Sample is the raw field of one selected area.
type Sample struct {
	Member Member
	Vector mgl64.Vec3
}

// Resolution is the full outcome of one query.
type Resolution struct {
	ActorID   string
	Position  mgl64.Vec3
	Selection *Selection
	Samples   []Sample
	Gravity   mgl64.Vec3
	// Fallback is set when Gravity came from the configured fallback.
	Fallback bool
}

// Result is one entry of a batch query.
type Result struct {
	ActorID string
	Gravity mgl64.Vec3
	Err     error
}

// Director resolves the gravity direction for actors from the areas a Finder supplies.
// It is safe for concurrent use; every query owns its selection, and sticky
// state is kept per actor.
type Director struct {
	finder     Finder
	cfg        Config
	categories Categories
	eval       EvalOptions
	fallback   mgl64.Vec3
	hasFall    bool
	log        log.Log

	sticky   *sharded.Map[*Selection]
	observed *sharded.Map[[]Member]
	observer Observer
}

func NewDirector(finder Finder, cfg Config, logger log.Log, opts ...Option) (*Director, error) {
	if finder == nil {
		return nil, fmt.Errorf("%w: nil finder", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNop()
	}
	categories, _ := cfg.categories()
	fallback, hasFall, _ := cfg.fallback()

	d := &Director{
		finder:     finder,
		cfg:        cfg,
		categories: categories,
		eval: EvalOptions{
			Epsilon:    cfg.Epsilon,
			LocalFrame: cfg.LocalFrameDisplacement,
		},
		fallback: fallback,
		hasFall:  hasFall,
		log:      logger.With(log.String("component", "gravity_director")),
	}
	for _, opt := range opts {
		opt(d)
	}
	if cfg.SelectionMode == ModeSticky {
		d.sticky = sharded.New[*Selection](cfg.Shards)
	}
	if d.observer != nil {
		d.observed = sharded.New[[]Member](cfg.Shards)
	}
	return d, nil
}

func (d *Director) Config() Config { return d.cfg }

// QueryGravity returns the unit gravity direction for the actor's current position.
//
// Without a configured fallback, an actor no area contains yields
// ErrEmptySelection, and selected areas whose fields are all zero or cancel
// out yield ErrDegenerateGeometry with the zero vector. The latter is an
// ordinary state: an actor outside a Parallel area's valid sector or above a
// Cone apex gets it when that area is the only one selected.
func (d *Director) QueryGravity(actor Actor) (mgl64.Vec3, error) {
	res, err := d.Resolve(actor)
	return res.Gravity, err
}

// Resolve selects, evaluates and combines, keeping every intermediate step.
func (d *Director) Resolve(actor Actor) (Resolution, error) {
	pos := actor.Position()
	res := Resolution{ActorID: actor.ID(), Position: pos}

	candidates := Gather(d.finder, actor, d.categories)
	res.Selection = d.selectFor(actor.ID(), pos, candidates)
	d.notify(actor.ID(), res.Selection)

	res.Samples = make([]Sample, 0, len(res.Selection.Members))
	vectors := make([]mgl64.Vec3, 0, len(res.Selection.Members))
	for _, m := range res.Selection.Members {
		v, err := Evaluate(pos, m, d.eval)
		if err != nil {
			d.log.Error("gravity area evaluation failed",
				log.String("actor", actor.ID()),
				log.String("area", m.Area.Name()),
				log.String("kind", m.Kind.String()),
				log.Error(err),
			)
			return res, fmt.Errorf("evaluate %s: %w", m.Area.Name(), err)
		}
		res.Samples = append(res.Samples, Sample{Member: m, Vector: v})
		vectors = append(vectors, v)
	}

	g, err := Combine(vectors, d.eval.Epsilon)
	if err != nil {
		if d.hasFall && (errors.Is(err, ErrEmptySelection) || errors.Is(err, ErrDegenerateGeometry)) {
			if errors.Is(err, ErrDegenerateGeometry) {
				d.log.Warn("gravity samples cancel out, using fallback",
					log.String("actor", actor.ID()),
					log.Strings("areas", res.Selection.Names()),
				)
			}
			res.Gravity = d.fallback
			res.Fallback = true
			return res, nil
		}
		return res, err
	}
	res.Gravity = g
	d.log.Debug("gravity resolved",
		log.String("actor", actor.ID()),
		log.Int("candidates", candidates.Len()),
		log.Int("samples", len(res.Samples)),
		log.Vector("gravity", g),
	)
	return res, nil
}

// QueryAll resolves actors in parallel. Per-actor failures are reported in
// the results; only cancellation aborts the batch.
func (d *Director) QueryAll(ctx context.Context, actors []Actor) ([]Result, error) {
	return concurrent.Map(ctx, actors, d.cfg.Workers, func(_ context.Context, a Actor) (Result, error) {
		g, err := d.QueryGravity(a)
		return Result{ActorID: a.ID(), Gravity: g, Err: err}, nil
	})
}

// Reset forgets sticky state and transition history for one actor.
func (d *Director) Reset(actorID string) {
	if d.sticky != nil {
		d.sticky.Delete(actorID)
	}
	if d.observed != nil {
		d.observed.Delete(actorID)
	}
}

// ResetAll forgets sticky state and transition history for every actor.
func (d *Director) ResetAll() {
	if d.sticky != nil {
		d.sticky.Clear()
	}
	if d.observed != nil {
		d.observed.Clear()
	}
}

func (d *Director) selectFor(actorID string, pos mgl64.Vec3, candidates *Candidates) *Selection {
	if d.sticky == nil {
		sel := NewSelection(d.cfg.PriorityFloor)
		Select(pos, candidates, sel)
		return sel
	}
	next := d.sticky.Update(actorID, func(prev *Selection, ok bool) *Selection {
		if !ok {
			prev = NewSelection(d.cfg.PriorityFloor)
		}
		return SelectSticky(pos, candidates, prev)
	})
	return next.Clone()
}

func (d *Director) notify(actorID string, sel *Selection) {
	if d.observer == nil {
		return
	}
	var prev []Member
	changed := false
	d.observed.Update(actorID, func(old []Member, _ bool) []Member {
		prev = old
		if sameMembers(old, sel.Members) {
			return old
		}
		changed = true
		return slices.Clone(sel.Members)
	})
	if !changed {
		return
	}
	d.log.Debug("gravity selection changed",
		log.String("actor", actorID),
		log.Int("priority", sel.Highest),
		log.Strings("areas", sel.Names()),
	)
	d.observer(actorID, prev, slices.Clone(sel.Members))
}

// sameMembers compares by area identity; labels need not be unique.
func sameMembers(a, b []Member) bool {
	return slices.EqualFunc(a, b, func(x, y Member) bool {
		return x.Kind == y.Kind && x.Area == y.Area
	})
}
