package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/zeusync/gravityfield/internal/core/gravity"
	"github.com/zeusync/gravityfield/internal/core/observability/log"
	"github.com/zeusync/gravityfield/internal/core/scene"
	"github.com/zeusync/gravityfield/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "gravity config file (YAML)")
	scenePath := flag.String("scene", "", "probe fixture with areas and actors (YAML)")
	watch := flag.Bool("watch", false, "re-run when the fixture changes")
	flag.Parse()

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "gravityprobe: -scene is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, *configPath, *scenePath, *watch, os.Stdout)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "gravityprobe:", err)
		os.Exit(1)
	}
}

// run probes every actor once, then with watch re-probes on each fixture
// change until ctx is done.
func run(ctx context.Context, configPath, scenePath string, watch bool, out io.Writer) error {
	reg, actors, err := loadScene(scenePath)
	if err != nil {
		return err
	}

	var current atomic.Pointer[scene.Registry]
	current.Store(reg)
	finder := gravity.FinderFunc(func(actor gravity.Actor, category string) []gravity.Area {
		return current.Load().FindAreas(actor, category)
	})

	app, err := injector.InitializeApp(injector.ConfigPath(configPath), finder)
	if err != nil {
		return err
	}
	defer func() { _ = app.Logger.Sync() }()

	if err = probe(ctx, app.Director, actors, out); err != nil || !watch {
		return err
	}

	w, err := scene.NewWatcher(scenePath)
	if err != nil {
		return err
	}
	defer w.Close()
	app.Logger.Info("watching fixture", log.String("path", scenePath))

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors:
			app.Logger.Warn("fixture watcher error", log.Error(err))
		case <-w.Events:
			next, nextActors, err := loadScene(scenePath)
			if err != nil {
				app.Logger.Error("fixture reload failed", log.Error(err))
				continue
			}
			current.Store(next)
			actors = nextActors
			app.Director.ResetAll()
			fmt.Fprintln(out, "---")
			if err = probe(ctx, app.Director, actors, out); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func loadScene(path string) (*scene.Registry, []gravity.Actor, error) {
	fixture, err := scene.LoadFixtureFile(path)
	if err != nil {
		return nil, nil, err
	}
	reg, actors, err := fixture.Build()
	if err != nil {
		return nil, nil, err
	}
	out := make([]gravity.Actor, len(actors))
	for i, a := range actors {
		out[i] = a
	}
	return reg, out, nil
}

func probe(ctx context.Context, d *gravity.Director, actors []gravity.Actor, out io.Writer) error {
	for _, actor := range actors {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := d.Resolve(actor)
		p := res.Position
		fmt.Fprintf(out, "%s at (%.3f, %.3f, %.3f)\n", res.ActorID, p.X(), p.Y(), p.Z())
		if res.Selection != nil {
			for _, s := range res.Samples {
				v := s.Vector
				fmt.Fprintf(out, "  %-10s %-40s priority=%d raw=(%.4f, %.4f, %.4f)\n",
					s.Member.Kind, s.Member.Area.Name(), s.Member.Area.Priority(), v.X(), v.Y(), v.Z())
			}
		}
		switch {
		case errors.Is(err, gravity.ErrEmptySelection):
			fmt.Fprintln(out, "  gravity: none (no area contains the actor)")
		case errors.Is(err, gravity.ErrDegenerateGeometry):
			fmt.Fprintln(out, "  gravity: degenerate (contributions cancel)")
		case err != nil:
			return fmt.Errorf("resolve %s: %w", actor.ID(), err)
		default:
			g := res.Gravity
			suffix := ""
			if res.Fallback {
				suffix = " (fallback)"
			}
			fmt.Fprintf(out, "  gravity: (%.4f, %.4f, %.4f)%s\n", g.X(), g.Y(), g.Z(), suffix)
		}
	}
	return nil
}
