package gravity

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Member is a selected area together with the shape it was found under.
type Member struct {
	Area Area
	Kind Kind
}

// Selection holds the contained areas tied at the highest priority seen.
// Every member has Priority() == Highest.
type Selection struct {
	Highest int
	Members []Member
}

// NewSelection starts an empty selection at the given priority floor.
func NewSelection(floor int) *Selection {
	return &Selection{Highest: floor}
}

// Offer applies the priority rule to one area already known to contain the actor.
func (s *Selection) Offer(m Member) {
	p := m.Area.Priority()
	switch {
	case p > s.Highest:
		s.Highest = p
		s.Members = s.Members[:0]
		s.Members = append(s.Members, m)
	case p == s.Highest:
		s.Members = append(s.Members, m)
	}
}

func (s *Selection) Empty() bool { return len(s.Members) == 0 }

// Names returns member names in selection order.
func (s *Selection) Names() []string {
	names := make([]string, len(s.Members))
	for i, m := range s.Members {
		names[i] = m.Area.Name()
	}
	return names
}

// Clone returns a copy that does not share the member slice.
func (s *Selection) Clone() *Selection {
	return &Selection{Highest: s.Highest, Members: slices.Clone(s.Members)}
}

// Candidates holds areas per shape, scanned in Kinds order.
type Candidates [kindCount][]Area

func (c *Candidates) Add(k Kind, areas ...Area) {
	c[k] = append(c[k], areas...)
}

func (c *Candidates) Len() int {
	n := 0
	for _, areas := range c {
		n += len(areas)
	}
	return n
}

// Gather asks the finder for every category in scan order.
func Gather(finder Finder, actor Actor, categories Categories) *Candidates {
	var c Candidates
	for _, k := range Kinds {
		c[k] = finder.FindAreas(actor, categories[k])
	}
	return &c
}

// Select scans candidates by kind, then in supply order, offering every area
// that contains pos. Ties are kept in scan order.
func Select(pos mgl64.Vec3, candidates *Candidates, sel *Selection) {
	for _, k := range Kinds {
		for _, area := range candidates[k] {
			if area == nil || !area.InVolume(pos) {
				continue
			}
			sel.Offer(Member{Area: area, Kind: k})
		}
	}
}

// SelectSticky rescans against a persisted threshold. Members are rebuilt at
// prev.Highest or above; when nothing reaches it the previous members stay.
func SelectSticky(pos mgl64.Vec3, candidates *Candidates, prev *Selection) *Selection {
	next := &Selection{Highest: prev.Highest}
	Select(pos, candidates, next)
	if next.Empty() {
		next.Members = slices.Clone(prev.Members)
	}
	return next
}
