package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chazu/lattice/pkg/config"
	"github.com/chazu/lattice/pkg/engine"
	"github.com/chazu/lattice/pkg/geom"
	"github.com/chazu/lattice/pkg/kernel"
	"github.com/chazu/lattice/pkg/kernel/sdfx"
	"github.com/chazu/lattice/pkg/op"
	"github.com/chazu/lattice/pkg/space"
	"github.com/chazu/lattice/pkg/tessellate"
)

// Format selects the input front end.
type Format string

const (
	FormatText Format = "text" // one "on|off x=..,y=..,z=.." per line
	FormatLisp Format = "lisp" // zygomys script
	FormatAuto Format = "auto" // pick by file extension
)

// DetectFormat resolves FormatAuto from the input path: .lisp and .lat are
// scripts, everything else is the line format.
func DetectFormat(path string, f Format) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lisp", ".lat":
		return FormatLisp
	default:
		return FormatText
	}
}

// App drives one run: front end, fold into an accumulator, and queries.
type App struct {
	engine *engine.Engine
	kernel *sdfx.SdfxKernel
	cfg    *config.Config
}

// NewApp creates an App from cfg. A nil cfg uses defaults.
func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Empty()
	}
	eng := engine.NewEngine()
	eng.SetTimeout(cfg.GetEvalTimeout())

	k := sdfx.New()
	k.SetMeshCells(cfg.GetMeshCells())

	return &App{engine: eng, kernel: k, cfg: cfg}
}

// Report is the answer for one input, with the time spent in each phase.
type Report struct {
	Part1 int64 // volume inside Region
	Part2 int64 // total volume

	Region    geom.Cuboid
	QueryMode string
	Backend   space.Backend

	Operations int
	Members    []geom.Cuboid
	Findings   []space.ValidationError

	ParseTime time.Duration
	Part1Time time.Duration // fold + bounded query
	Part2Time time.Duration // total query
	Overall   time.Duration
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Parsed %d operations in %s\n", r.Operations, r.ParseTime)
	fmt.Fprintf(&b, "Part 1 Result: %d (%s, %s)\n", r.Part1, r.QueryMode, r.Region)
	fmt.Fprintf(&b, "Part 2 Result: %d\n", r.Part2)
	fmt.Fprintf(&b, "Part 1 took %s, Part 2 took %s\n", r.Part1Time, r.Part2Time)
	fmt.Fprintf(&b, "Overall runtime: %s (%d members, %s backend)\n", r.Overall, len(r.Members), r.Backend)
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "%s\n", f.Error())
	}
	return b.String()
}

// program parses source with the selected front end.
func (a *App) program(source string, format Format) (*engine.Program, error) {
	switch format {
	case FormatLisp:
		p, evalErrs, err := a.engine.Evaluate(source)
		if err != nil {
			return nil, fmt.Errorf("evaluate: %w", err)
		}
		if len(evalErrs) > 0 {
			msgs := make([]string, len(evalErrs))
			for i, e := range evalErrs {
				msgs[i] = e.Error()
			}
			return nil, fmt.Errorf("evaluate: %s", strings.Join(msgs, "; "))
		}
		return p, nil
	case FormatText, FormatAuto, "":
		ops, err := op.ParseString(source)
		if err != nil {
			return nil, err
		}
		return &engine.Program{Operations: ops}, nil
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

// region picks the bounded query region: configured value first, then
// the script's (region ...), then the default.
func (a *App) region(p *engine.Program) geom.Cuboid {
	if a.cfg.Region == nil && p.Region != nil {
		return *p.Region
	}
	return a.cfg.GetRegion()
}

// Run parses source, folds every operation into a fresh accumulator and
// answers both queries. validate adds disjointness and region findings.
func (a *App) Run(source string, format Format, validate bool) (*Report, error) {
	start := time.Now()

	p, err := a.program(source, format)
	if err != nil {
		return nil, err
	}
	parsed := time.Now()

	r := &Report{
		Region:     a.region(p),
		QueryMode:  a.cfg.GetQueryMode(),
		Backend:    a.cfg.GetBackend(),
		Operations: len(p.Operations),
		ParseTime:  parsed.Sub(start),
	}
	if a.cfg.GetVerbose() {
		log.Printf("parsed %d operations (%s) in %s", r.Operations, format, r.ParseTime)
	}

	acc := space.NewAccumulator(r.Backend)
	space.ApplyAll(acc, p.Operations)
	if r.QueryMode == config.QueryClipped {
		r.Part1 = acc.VolumeClipped(r.Region)
	} else {
		r.Part1 = acc.VolumeWithin(r.Region)
	}
	t1 := time.Now()
	r.Part1Time = t1.Sub(parsed)

	r.Part2 = acc.Volume()
	t2 := time.Now()
	r.Part2Time = t2.Sub(t1)

	r.Members = acc.Members()
	if validate {
		r.Findings = append(space.Validate(r.Members), space.ValidateRegion(r.Members, r.Region)...)
	}
	r.Overall = time.Since(start)

	if a.cfg.GetVerbose() {
		log.Printf("folded into %d members, part1=%d part2=%d", len(r.Members), r.Part1, r.Part2)
	}
	return r, nil
}

// ExportSTL writes the union of members to path. A non-nil region clips
// the mesh.
func (a *App) ExportSTL(members []geom.Cuboid, region *geom.Cuboid, path string) error {
	opts := tessellate.Options{Region: region}
	if err := tessellate.ExportSTL(members, a.kernel, opts, path); err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	if a.cfg.GetVerbose() {
		log.Printf("wrote %s (%d members, %d mesh cells)", path, len(members), a.kernel.MeshCells())
	}
	return nil
}

// MeshStats summarizes a mesh written by ExportMesh.
type MeshStats struct {
	Parts     int
	Vertices  int
	Triangles int
	Min, Max  [3]float32
}

func (m MeshStats) String() string {
	return fmt.Sprintf("%d parts, %d vertices, %d triangles, spanning %v..%v",
		m.Parts, m.Vertices, m.Triangles, m.Min, m.Max)
}

// meshDocument is the JSON layout written by ExportMesh: the combined mesh
// plus one mesh per set member.
type meshDocument struct {
	Mesh  *kernel.Mesh   `json:"mesh"`
	Parts []*kernel.Mesh `json:"parts"`
}

// ExportMesh tessellates every member (clipped to region when non-nil) and
// writes the meshes to path as JSON.
func (a *App) ExportMesh(members []geom.Cuboid, region *geom.Cuboid, path string) (MeshStats, error) {
	parts, err := tessellate.Tessellate(members, a.kernel, tessellate.Options{Region: region})
	if err != nil {
		return MeshStats{}, fmt.Errorf("mesh: %w", err)
	}
	all := tessellate.Combine("set", parts)

	f, err := os.Create(path)
	if err != nil {
		return MeshStats{}, fmt.Errorf("mesh: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(meshDocument{Mesh: all, Parts: parts}); err != nil {
		return MeshStats{}, fmt.Errorf("mesh: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return MeshStats{}, fmt.Errorf("mesh: close %s: %w", path, err)
	}

	stats := MeshStats{
		Parts:     len(parts),
		Vertices:  all.VertexCount(),
		Triangles: all.TriangleCount(),
	}
	stats.Min, stats.Max = all.Bounds()
	if a.cfg.GetVerbose() {
		log.Printf("wrote %s (%s)", path, stats)
	}
	return stats, nil
}
