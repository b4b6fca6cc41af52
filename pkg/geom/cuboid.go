// Package geom defines the integer cuboid value type used throughout Lattice.
// A Cuboid is a closed, axis-aligned box on the integer lattice; all of its
// operations are pure and return new values.
package geom

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrInvertedBounds is returned by New when a minimum exceeds its maximum.
var ErrInvertedBounds = errors.New("geom: min exceeds max")

// ErrVolumeOverflow is returned by New when the point count of a cuboid does
// not fit in an int64. Any box of up to about 2e6 points per side is safe.
var ErrVolumeOverflow = errors.New("geom: volume overflows int64")

// Axis identifies one of the three lattice axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Cuboid is the closed integer box [MinX..MaxX] x [MinY..MaxY] x [MinZ..MaxZ].
// Values built through New always satisfy min <= max on every axis.
type Cuboid struct {
	MinX, MaxX int64
	MinY, MaxY int64
	MinZ, MaxZ int64
}

// New builds a cuboid from inclusive per-axis bounds.
func New(x1, x2, y1, y2, z1, z2 int64) (Cuboid, error) {
	c := Cuboid{MinX: x1, MaxX: x2, MinY: y1, MaxY: y2, MinZ: z1, MaxZ: z2}
	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		lo, hi := c.Bounds(a)
		if lo > hi {
			return Cuboid{}, fmt.Errorf("%w on %s axis (%d..%d)", ErrInvertedBounds, a, lo, hi)
		}
	}
	if _, ok := c.volume(); !ok {
		return Cuboid{}, fmt.Errorf("%w: %s", ErrVolumeOverflow, c)
	}
	return c, nil
}

// MustNew is like New but panics on invalid bounds. Intended for literals.
func MustNew(x1, x2, y1, y2, z1, z2 int64) Cuboid {
	c, err := New(x1, x2, y1, y2, z1, z2)
	if err != nil {
		panic(err)
	}
	return c
}

// Bounds returns the inclusive extent of c along axis a.
func (c Cuboid) Bounds(a Axis) (lo, hi int64) {
	switch a {
	case AxisX:
		return c.MinX, c.MaxX
	case AxisY:
		return c.MinY, c.MaxY
	case AxisZ:
		return c.MinZ, c.MaxZ
	}
	panic(fmt.Sprintf("geom: invalid axis %d", int(a)))
}

// Size returns the number of lattice points along each axis.
func (c Cuboid) Size() [3]int64 {
	return [3]int64{c.MaxX - c.MinX + 1, c.MaxY - c.MinY + 1, c.MaxZ - c.MinZ + 1}
}

// Volume returns the number of lattice points in c. It panics if the count
// does not fit in an int64, which New rules out.
func (c Cuboid) Volume() int64 {
	v, ok := c.volume()
	if !ok {
		panic(fmt.Sprintf("%v: %s", ErrVolumeOverflow, c))
	}
	return v
}

func (c Cuboid) volume() (int64, bool) {
	v := uint64(1)
	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		lo, hi := c.Bounds(a)
		d := uint64(hi) - uint64(lo)
		if d == math.MaxUint64 {
			return 0, false
		}
		carry, prod := bits.Mul64(v, d+1)
		if carry != 0 || prod > math.MaxInt64 {
			return 0, false
		}
		v = prod
	}
	return int64(v), true
}

// AddVolume returns a+b for non-negative point counts, panicking with
// ErrVolumeOverflow when the sum does not fit in an int64.
func AddVolume(a, b int64) int64 {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 || sum > math.MaxInt64 {
		panic(fmt.Sprintf("%v: %d + %d", ErrVolumeOverflow, a, b))
	}
	return int64(sum)
}

// overlap is the per-axis max(min)/min(max) box. It may be inverted.
func (c Cuboid) overlap(o Cuboid) Cuboid {
	return Cuboid{
		MinX: max(c.MinX, o.MinX), MaxX: min(c.MaxX, o.MaxX),
		MinY: max(c.MinY, o.MinY), MaxY: min(c.MaxY, o.MaxY),
		MinZ: max(c.MinZ, o.MinZ), MaxZ: min(c.MaxZ, o.MaxZ),
	}
}

func (c Cuboid) valid() bool {
	return c.MinX <= c.MaxX && c.MinY <= c.MaxY && c.MinZ <= c.MaxZ
}

// Intersects reports whether c and o share at least one lattice point.
func (c Cuboid) Intersects(o Cuboid) bool {
	return c.overlap(o).valid()
}

// Intersection returns the common box of c and o.
// Callers must check Intersects first; disjoint inputs panic.
func (c Cuboid) Intersection(o Cuboid) Cuboid {
	i := c.overlap(o)
	if !i.valid() {
		panic(fmt.Sprintf("geom: Intersection of disjoint cuboids %s and %s", c, o))
	}
	return i
}

// Contains reports whether every lattice point of o lies inside c.
func (c Cuboid) Contains(o Cuboid) bool {
	return c.MinX <= o.MinX && o.MaxX <= c.MaxX &&
		c.MinY <= o.MinY && o.MaxY <= c.MaxY &&
		c.MinZ <= o.MinZ && o.MaxZ <= c.MaxZ
}

// Clip returns the part of c inside region, and false when there is none.
func (c Cuboid) Clip(region Cuboid) (Cuboid, bool) {
	i := c.overlap(region)
	if !i.valid() {
		return Cuboid{}, false
	}
	return i, true
}

// Subtract splits c into at most six pairwise disjoint cuboids covering
// exactly c minus cut. cut must lie inside c, which is what
// c.Intersection(other) produces; anything else panics.
//
// Slabs are taken in x, y, z order. The x slabs span the whole of c on y
// and z; the y slabs are narrowed to cut's x extent; the z slabs are narrowed
// to cut's x and y extent, so no point is emitted twice.
func (c Cuboid) Subtract(cut Cuboid) []Cuboid {
	if !c.Contains(cut) || !cut.valid() {
		panic(fmt.Sprintf("geom: Subtract cut %s is not inside %s", cut, c))
	}

	out := make([]Cuboid, 0, 6)

	// x-high, x-low
	if c.MaxX > cut.MaxX {
		out = append(out, Cuboid{cut.MaxX + 1, c.MaxX, c.MinY, c.MaxY, c.MinZ, c.MaxZ})
	}
	if c.MinX < cut.MinX {
		out = append(out, Cuboid{c.MinX, cut.MinX - 1, c.MinY, c.MaxY, c.MinZ, c.MaxZ})
	}
	// y-high, y-low
	if c.MaxY > cut.MaxY {
		out = append(out, Cuboid{cut.MinX, cut.MaxX, cut.MaxY + 1, c.MaxY, c.MinZ, c.MaxZ})
	}
	if c.MinY < cut.MinY {
		out = append(out, Cuboid{cut.MinX, cut.MaxX, c.MinY, cut.MinY - 1, c.MinZ, c.MaxZ})
	}
	// z-high, z-low
	if c.MaxZ > cut.MaxZ {
		out = append(out, Cuboid{cut.MinX, cut.MaxX, cut.MinY, cut.MaxY, cut.MaxZ + 1, c.MaxZ})
	}
	if c.MinZ < cut.MinZ {
		out = append(out, Cuboid{cut.MinX, cut.MaxX, cut.MinY, cut.MaxY, c.MinZ, cut.MinZ - 1})
	}

	return out
}

// Union returns the smallest cuboid enclosing both c and o.
func (c Cuboid) Union(o Cuboid) Cuboid {
	return Cuboid{
		MinX: min(c.MinX, o.MinX), MaxX: max(c.MaxX, o.MaxX),
		MinY: min(c.MinY, o.MinY), MaxY: max(c.MaxY, o.MaxY),
		MinZ: min(c.MinZ, o.MinZ), MaxZ: max(c.MaxZ, o.MaxZ),
	}
}

// String renders c in the instruction grammar, e.g. "x=1..2,y=3..4,z=5..6".
func (c Cuboid) String() string {
	return fmt.Sprintf("x=%d..%d,y=%d..%d,z=%d..%d", c.MinX, c.MaxX, c.MinY, c.MaxY, c.MinZ, c.MaxZ)
}
