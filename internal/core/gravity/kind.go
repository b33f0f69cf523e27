package gravity

import (
	"fmt"
	"strings"
)

// Kind identifies the gravity field shape of an area. It is known from the
// category an area was found under and travels with the area from selection
// to evaluation.
type Kind uint8

const (
	KindPoint Kind = iota
	KindCube
	KindCone
	KindParallel
	KindDisk
	KindDiskTorus
	KindSegment

	kindCount
)

// Kinds lists every shape in scan order.
var Kinds = [...]Kind{
	KindPoint,
	KindCube,
	KindCone,
	KindParallel,
	KindDisk,
	KindDiskTorus,
	KindSegment,
}

var kindNames = [kindCount]string{
	KindPoint:     "point",
	KindCube:      "cube",
	KindCone:      "cone",
	KindParallel:  "parallel",
	KindDisk:      "disk",
	KindDiskTorus: "disk_torus",
	KindSegment:   "segment",
}

var kindCategories = [kindCount]string{
	KindPoint:     "GravityPointArea",
	KindCube:      "GravityCubeArea",
	KindCone:      "GravityConeArea",
	KindParallel:  "GravityParallelArea",
	KindDisk:      "GravityDiskArea",
	KindDiskTorus: "GravityDiskTorusArea",
	KindSegment:   "GravitySegmentArea",
}

// LegacySegmentCategory is the group name some level data registers segment
// areas under.
const LegacySegmentCategory = "GravitySegmentGroup"

func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Category returns the default area category name looked up for the kind.
func (k Kind) Category() string {
	if k >= kindCount {
		return ""
	}
	return kindCategories[k]
}

func (k Kind) Valid() bool { return k < kindCount }

// ParseKind accepts either the short name ("disk_torus") or a category name
// ("GravityDiskTorusArea").
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, kindNames[k]) || s == kindCategories[k] {
			return k, nil
		}
	}
	if s == LegacySegmentCategory {
		return KindSegment, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
