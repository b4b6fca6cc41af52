// Package kernel defines the solid-modeling interface used to turn lattice
// cuboids into renderable geometry. The sdfx subpackage is the only
// implementation; the rest of the system depends on this interface alone.
package kernel

import "github.com/chazu/lattice/pkg/geom"

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box in world units.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds solids from cuboids and renders them.
//
// A lattice cuboid x=a..b covers the unit cells [a, b+1) on each axis, so
// Box(c) spans exactly Size() units per axis and Volume() unit cells.
type Kernel interface {
	Box(c geom.Cuboid) Solid

	Union(a, b Solid) Solid

	ToMesh(s Solid) (*Mesh, error)
	ExportSTL(s Solid, path string) error
}

// CellBounds returns the world-space extent of the unit cells covered by c.
func CellBounds(c geom.Cuboid) (min, max [3]float64) {
	for i, a := range []geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
		lo, hi := c.Bounds(a)
		min[i] = float64(lo)
		max[i] = float64(hi + 1)
	}
	return min, max
}
