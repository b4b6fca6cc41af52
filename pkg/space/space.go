// Package space maintains collections of pairwise disjoint cuboids under a
// sequence of on/off toggles. Because members never share a lattice point,
// the volume of the "on" region is just the sum of member volumes.
//
// Two backends implement Accumulator: Set scans every member on each Apply,
// IndexedSet finds candidates through an interval tree. Both are
// single-goroutine structures and are not safe for concurrent use.
package space

import (
	"github.com/chazu/lattice/pkg/geom"
	"github.com/chazu/lattice/pkg/op"
	"github.com/samber/lo"
)

// Accumulator folds toggle operations into a disjoint cuboid collection.
type Accumulator interface {
	// Apply erases the "on" region inside o.Box, then re-marks it when o is on.
	Apply(o op.Operation)

	// Volume returns the number of "on" lattice points.
	Volume() int64
	// VolumeWithin sums members lying entirely inside region. Members that
	// straddle the boundary are left out in full.
	VolumeWithin(region geom.Cuboid) int64
	// VolumeClipped sums the part of every member inside region.
	VolumeClipped(region geom.Cuboid) int64

	Members() []geom.Cuboid
	Len() int
}

// Backend names an Accumulator implementation.
type Backend string

const (
	BackendSlice        Backend = "slice"
	BackendIntervalTree Backend = "interval-tree"
)

// NewAccumulator returns an empty accumulator for the named backend.
// Unknown names fall back to the slice backend.
func NewAccumulator(b Backend) Accumulator {
	if b == BackendIntervalTree {
		return NewIndexedSet()
	}
	return NewSet()
}

// ApplyAll folds ops into a in order.
func ApplyAll(a Accumulator, ops []op.Operation) {
	for _, o := range ops {
		a.Apply(o)
	}
}

// Compile-time interface checks.
var _ Accumulator = (*Set)(nil)
var _ Accumulator = (*IndexedSet)(nil)

// Set is the reference Accumulator. Every Apply builds a fresh member slice,
// so slices handed out by Members are never aliased by later updates.
type Set struct {
	members []geom.Cuboid
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{}
}

// Apply replaces every member touching o.Box with its remainder fragments
// and appends o.Box itself when o is on.
func (s *Set) Apply(o op.Operation) {
	next := make([]geom.Cuboid, 0, len(s.members)+1)
	var hit []geom.Cuboid
	for _, m := range s.members {
		if m.Intersects(o.Box) {
			hit = append(hit, m)
		} else {
			next = append(next, m)
		}
	}

	next = append(next, lo.FlatMap(hit, func(m geom.Cuboid, _ int) []geom.Cuboid {
		return m.Subtract(m.Intersection(o.Box))
	})...)

	if o.Polarity == op.On {
		next = append(next, o.Box)
	}
	s.members = next
}

// Volume returns the number of "on" lattice points.
func (s *Set) Volume() int64 {
	return totalVolume(s.members)
}

// VolumeWithin sums members lying entirely inside region.
func (s *Set) VolumeWithin(region geom.Cuboid) int64 {
	return containedVolume(s.members, region)
}

// VolumeClipped sums the part of every member inside region.
func (s *Set) VolumeClipped(region geom.Cuboid) int64 {
	return clippedVolume(s.members, region)
}

// Members returns a copy of the current members.
func (s *Set) Members() []geom.Cuboid {
	out := make([]geom.Cuboid, len(s.members))
	copy(out, s.members)
	return out
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.members)
}

// sumVolumes adds up per-member counts, panicking with geom.ErrVolumeOverflow
// rather than wrapping.
func sumVolumes(members []geom.Cuboid, count func(geom.Cuboid) int64) int64 {
	return lo.Reduce(members, func(total int64, m geom.Cuboid, _ int) int64 {
		return geom.AddVolume(total, count(m))
	}, 0)
}

func totalVolume(members []geom.Cuboid) int64 {
	return sumVolumes(members, geom.Cuboid.Volume)
}

func containedVolume(members []geom.Cuboid, region geom.Cuboid) int64 {
	inside := lo.Filter(members, func(m geom.Cuboid, _ int) bool {
		return region.Contains(m)
	})
	return totalVolume(inside)
}

func clippedVolume(members []geom.Cuboid, region geom.Cuboid) int64 {
	return sumVolumes(members, func(m geom.Cuboid) int64 {
		c, ok := m.Clip(region)
		if !ok {
			return 0
		}
		return c.Volume()
	})
}
