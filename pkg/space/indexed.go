package space

import (
	"sort"

	"github.com/Workiva/go-datastructures/augmentedtree"
	"github.com/chazu/lattice/pkg/geom"
	"github.com/chazu/lattice/pkg/op"
)

// treeDims is the number of dimensions indexed by the interval tree.
// augmentedtree numbers dimensions from 1: x=1, y=2, z=3.
const treeDims = 3

// entry adapts a member cuboid to augmentedtree.Interval.
type entry struct {
	box geom.Cuboid
	id  uint64
}

func axisOf(d uint64) geom.Axis {
	return geom.Axis(d - 1)
}

func (e *entry) LowAtDimension(d uint64) int64 {
	lo, _ := e.box.Bounds(axisOf(d))
	return lo
}

func (e *entry) HighAtDimension(d uint64) int64 {
	_, hi := e.box.Bounds(axisOf(d))
	return hi
}

// OverlapsAtDimension uses closed bounds: touching intervals share a point.
func (e *entry) OverlapsAtDimension(iv augmentedtree.Interval, d uint64) bool {
	return e.HighAtDimension(d) >= iv.LowAtDimension(d) &&
		e.LowAtDimension(d) <= iv.HighAtDimension(d)
}

func (e *entry) ID() uint64 {
	return e.id
}

// IndexedSet is an Accumulator that locates the members touching an
// incoming box through a 3-dimensional augmented interval tree, so Apply
// costs roughly O(log n + k) lookups instead of a full scan.
type IndexedSet struct {
	tree    augmentedtree.Tree
	members map[uint64]*entry
	nextID  uint64
}

// NewIndexedSet returns an empty IndexedSet.
func NewIndexedSet() *IndexedSet {
	return &IndexedSet{
		tree:    augmentedtree.New(treeDims),
		members: make(map[uint64]*entry),
	}
}

func (s *IndexedSet) insert(c geom.Cuboid) {
	s.nextID++
	e := &entry{box: c, id: s.nextID}
	s.members[e.id] = e
	s.tree.Add(e)
}

// Apply has the same semantics as Set.Apply.
func (s *IndexedSet) Apply(o op.Operation) {
	query := &entry{box: o.Box}
	hits := s.tree.Query(query)

	found := make([]*entry, 0, len(hits))
	for _, iv := range hits {
		e := iv.(*entry)
		// The tree prunes on x; confirm all three axes before cutting.
		if e.box.Intersects(o.Box) {
			found = append(found, e)
		}
	}

	if len(found) > 0 {
		doomed := make([]augmentedtree.Interval, len(found))
		for i, e := range found {
			doomed[i] = e
			delete(s.members, e.id)
		}
		s.tree.Delete(doomed...)

		for _, e := range found {
			for _, f := range e.box.Subtract(e.box.Intersection(o.Box)) {
				s.insert(f)
			}
		}
	}

	if o.Polarity == op.On {
		s.insert(o.Box)
	}
}

// Volume returns the number of "on" lattice points.
func (s *IndexedSet) Volume() int64 {
	return totalVolume(s.Members())
}

// VolumeWithin sums members lying entirely inside region.
func (s *IndexedSet) VolumeWithin(region geom.Cuboid) int64 {
	return containedVolume(s.Members(), region)
}

// VolumeClipped sums the part of every member inside region.
func (s *IndexedSet) VolumeClipped(region geom.Cuboid) int64 {
	return clippedVolume(s.Members(), region)
}

// Members returns the current members in insertion order.
func (s *IndexedSet) Members() []geom.Cuboid {
	ids := make([]uint64, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]geom.Cuboid, len(ids))
	for i, id := range ids {
		out[i] = s.members[id].box
	}
	return out
}

// Len returns the number of members.
func (s *IndexedSet) Len() int {
	return len(s.members)
}
