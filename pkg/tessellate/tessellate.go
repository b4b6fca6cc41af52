// Package tessellate turns the members of a disjoint cuboid set into
// triangle meshes using a geometry kernel. One mesh is produced per member.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/lattice/pkg/geom"
	"github.com/chazu/lattice/pkg/kernel"
	"github.com/samber/lo"
)

// ErrNothingToRender is returned when no member survives region clipping.
var ErrNothingToRender = errors.New("tessellate: no cuboids to render")

// Options controls which part of a set is rendered.
type Options struct {
	// Region, when set, clips every member to this cuboid and drops members
	// outside it.
	Region *geom.Cuboid
}

// part is a member prepared for rendering, keeping its index in the set.
type part struct {
	index int
	box   geom.Cuboid
}

func prepare(members []geom.Cuboid, opts Options) []part {
	return lo.FilterMap(members, func(c geom.Cuboid, i int) (part, bool) {
		if opts.Region == nil {
			return part{index: i, box: c}, true
		}
		clipped, ok := c.Clip(*opts.Region)
		return part{index: i, box: clipped}, ok
	})
}

// PartName names the mesh generated for set member i.
func PartName(i int) string {
	return fmt.Sprintf("fragment-%d", i)
}

// Tessellate renders each member to its own mesh. The tessellator is
// read-only and never mutates members.
func Tessellate(members []geom.Cuboid, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	parts := prepare(members, opts)
	meshes := make([]*kernel.Mesh, 0, len(parts))
	for _, p := range parts {
		mesh, err := k.ToMesh(k.Box(p.box))
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", p.box, err)
		}
		mesh.PartName = PartName(p.index)
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// Combine concatenates meshes into a single mesh named name.
func Combine(name string, meshes []*kernel.Mesh) *kernel.Mesh {
	out := &kernel.Mesh{PartName: name}
	for _, m := range meshes {
		out.Append(m)
	}
	return out
}

// Solid unions all (clipped) members into one kernel solid, suitable for
// STL export.
func Solid(members []geom.Cuboid, k kernel.Kernel, opts Options) (kernel.Solid, error) {
	parts := prepare(members, opts)
	if len(parts) == 0 {
		return nil, ErrNothingToRender
	}
	s := k.Box(parts[0].box)
	for _, p := range parts[1:] {
		s = k.Union(s, k.Box(p.box))
	}
	return s, nil
}

// ExportSTL writes the union of members to path.
func ExportSTL(members []geom.Cuboid, k kernel.Kernel, opts Options, path string) error {
	s, err := Solid(members, k, opts)
	if err != nil {
		return err
	}
	return k.ExportSTL(s, path)
}
