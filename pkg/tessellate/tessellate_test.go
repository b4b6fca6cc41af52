package tessellate_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/lattice/pkg/geom"
	"github.com/chazu/lattice/pkg/kernel"
	"github.com/chazu/lattice/pkg/kernel/sdfx"
	"github.com/chazu/lattice/pkg/op"
	"github.com/chazu/lattice/pkg/space"
	"github.com/chazu/lattice/pkg/tessellate"
)

// newKernel returns a coarse sdfx kernel so tests stay fast.
func newKernel() kernel.Kernel {
	k := sdfx.New()
	k.SetMeshCells(24)
	return k
}

func TestTessellateEmpty(t *testing.T) {
	meshes, err := tessellate.Tessellate(nil, newKernel(), tessellate.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(meshes))
	}
}

func TestTessellateOneMeshPerMember(t *testing.T) {
	s := space.NewSet()
	s.Apply(op.Switch(geom.MustNew(0, 9, 0, 9, 0, 9)))
	s.Apply(op.Clear(geom.MustNew(3, 6, 3, 6, 3, 6)))

	members := s.Members()
	if len(members) != 6 {
		t.Fatalf("expected 6 fragments, got %d", len(members))
	}

	meshes, err := tessellate.Tessellate(members, newKernel(), tessellate.Options{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != len(members) {
		t.Fatalf("expected %d meshes, got %d", len(members), len(meshes))
	}
	for i, m := range meshes {
		if m.IsEmpty() {
			t.Errorf("mesh %d is empty", i)
		}
		if want := tessellate.PartName(i); m.PartName != want {
			t.Errorf("mesh %d PartName = %q, want %q", i, m.PartName, want)
		}
	}
}

func TestTessellateRegionClips(t *testing.T) {
	members := []geom.Cuboid{
		geom.MustNew(0, 9, 0, 9, 0, 9),
		geom.MustNew(100, 109, 0, 9, 0, 9), // outside the region
		geom.MustNew(-20, -10, 0, 9, 0, 9), // outside the region
		geom.MustNew(40, 60, 0, 9, 0, 9),   // straddles the region
	}
	region := geom.MustNew(-5, 49, -5, 49, -5, 49)

	meshes, err := tessellate.Tessellate(members, newKernel(), tessellate.Options{Region: &region})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes after clipping, got %d", len(meshes))
	}
	if meshes[0].PartName != "fragment-0" || meshes[1].PartName != "fragment-3" {
		t.Errorf("part names = %q, %q; want fragment-0, fragment-3", meshes[0].PartName, meshes[1].PartName)
	}

	// The straddling member is cut at x=50 (cell bound of 49).
	_, max := meshes[1].Bounds()
	if max[0] > 50.5 {
		t.Errorf("clipped mesh reaches x=%v, want <= 50", max[0])
	}
}

func TestCombine(t *testing.T) {
	members := []geom.Cuboid{
		geom.MustNew(0, 1, 0, 1, 0, 1),
		geom.MustNew(5, 6, 5, 6, 5, 6),
	}
	meshes, err := tessellate.Tessellate(members, newKernel(), tessellate.Options{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}

	all := tessellate.Combine("set", meshes)
	if all.PartName != "set" {
		t.Errorf("PartName = %q", all.PartName)
	}
	wantTri := meshes[0].TriangleCount() + meshes[1].TriangleCount()
	if all.TriangleCount() != wantTri {
		t.Errorf("combined triangles = %d, want %d", all.TriangleCount(), wantTri)
	}
	for _, idx := range all.Indices {
		if int(idx) >= all.VertexCount() {
			t.Fatalf("index %d out of range (%d vertices)", idx, all.VertexCount())
		}
	}
}

func TestSolidNothingToRender(t *testing.T) {
	region := geom.MustNew(0, 1, 0, 1, 0, 1)
	members := []geom.Cuboid{geom.MustNew(10, 11, 10, 11, 10, 11)}

	_, err := tessellate.Solid(members, newKernel(), tessellate.Options{Region: &region})
	if !errors.Is(err, tessellate.ErrNothingToRender) {
		t.Errorf("expected ErrNothingToRender, got %v", err)
	}
	_, err = tessellate.Solid(nil, newKernel(), tessellate.Options{})
	if !errors.Is(err, tessellate.ErrNothingToRender) {
		t.Errorf("expected ErrNothingToRender for empty set, got %v", err)
	}
}

func TestSolidBoundingBox(t *testing.T) {
	members := []geom.Cuboid{
		geom.MustNew(0, 1, 0, 1, 0, 1),
		geom.MustNew(5, 6, -3, 1, 0, 8),
	}
	s, err := tessellate.Solid(members, newKernel(), tessellate.Options{})
	if err != nil {
		t.Fatalf("Solid failed: %v", err)
	}
	min, max := s.BoundingBox()
	if min[0] > 0 || min[1] > -3 || min[2] > 0 {
		t.Errorf("bbox min = %v", min)
	}
	if max[0] < 7 || max[1] < 2 || max[2] < 9 {
		t.Errorf("bbox max = %v", max)
	}
}

func TestExportSTL(t *testing.T) {
	members := []geom.Cuboid{
		geom.MustNew(0, 2, 0, 2, 0, 2),
		geom.MustNew(4, 6, 0, 2, 0, 2),
	}
	path := filepath.Join(t.TempDir(), "set.stl")
	if err := tessellate.ExportSTL(members, newKernel(), tessellate.Options{}, path); err != nil {
		t.Fatalf("ExportSTL failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() <= 84 {
		t.Errorf("STL file is %d bytes, expected triangles", info.Size())
	}
}
