package scene

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/gravityfield/internal/core/gravity"
)

// Fixture is a probe scene: a handful of areas and actors described in YAML.
type Fixture struct {
	Areas  []AreaSpec  `json:"areas" yaml:"areas"`
	Actors []ActorSpec `json:"actors" yaml:"actors"`
}

type AreaSpec struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Category is an engine category name or a short kind name such as "cube".
	Category    string             `json:"category" yaml:"category"`
	Priority    *int               `json:"priority,omitempty" yaml:"priority,omitempty"`
	Translation [3]float64         `json:"translation" yaml:"translation"`
	RotationDeg [3]float64         `json:"rotation_deg,omitempty" yaml:"rotation_deg,omitempty"`
	Volume      VolumeSpec         `json:"volume" yaml:"volume"`
	Params      map[string]float64 `json:"params,omitempty" yaml:"params,omitempty"`
}

type VolumeSpec struct {
	Shape       string     `json:"shape" yaml:"shape"`
	Radius      float64    `json:"radius,omitempty" yaml:"radius,omitempty"`
	HalfExtents [3]float64 `json:"half_extents,omitempty" yaml:"half_extents,omitempty"`
	HalfHeight  float64    `json:"half_height,omitempty" yaml:"half_height,omitempty"`
}

type ActorSpec struct {
	ID       string     `json:"id" yaml:"id"`
	Position [3]float64 `json:"position" yaml:"position"`
}

// LoadFixture decodes a YAML fixture.
func LoadFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

func LoadFixtureFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer file.Close()
	return LoadFixture(file)
}

// Build creates a registry holding the fixture areas plus its actors.
func (f *Fixture) Build() (*Registry, []*Actor, error) {
	reg := NewRegistry()
	for i, item := range f.Areas {
		a, err := item.area()
		if err != nil {
			return nil, nil, fmt.Errorf("area %d: %w", i, err)
		}
		if err = reg.Add(a); err != nil {
			return nil, nil, fmt.Errorf("area %d: %w", i, err)
		}
	}

	actors := make([]*Actor, 0, len(f.Actors))
	seen := make(map[string]bool, len(f.Actors))
	for i, item := range f.Actors {
		if item.ID == "" {
			return nil, nil, fmt.Errorf("actor %d: empty id", i)
		}
		if seen[item.ID] {
			return nil, nil, fmt.Errorf("actor %d: duplicate id %q", i, item.ID)
		}
		seen[item.ID] = true
		actors = append(actors, NewActor(item.ID, mgl64.Vec3(item.Position)))
	}
	return reg, actors, nil
}

func (s AreaSpec) area() (*Area, error) {
	category := s.Category
	if k, err := gravity.ParseKind(category); err == nil && !strings.HasPrefix(category, "Gravity") {
		category = k.Category()
	}
	if category == "" {
		return nil, fmt.Errorf("%w: missing category", ErrInvalidArea)
	}
	volume, err := s.Volume.volume()
	if err != nil {
		return nil, err
	}

	placement := gravity.NewPlacement(mgl64.Vec3(s.Translation), mgl64.Vec3(s.RotationDeg))
	a := NewArea(category, placement, volume, s.Params).WithLabel(s.Name)
	if s.Priority != nil {
		a.WithPriority(*s.Priority)
	}
	return a, nil
}

func (v VolumeSpec) volume() (Volume, error) {
	switch strings.ToLower(v.Shape) {
	case "sphere":
		return Sphere{Radius: v.Radius}, nil
	case "box", "cube":
		return Box{HalfExtents: mgl64.Vec3(v.HalfExtents)}, nil
	case "cylinder":
		return Cylinder{Radius: v.Radius, HalfHeight: v.HalfHeight}, nil
	case "", "everywhere", "infinite":
		return Everywhere{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown volume shape %q", ErrInvalidArea, v.Shape)
	}
}
