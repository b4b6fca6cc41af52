// Command lattice folds on/off cuboid instructions into a disjoint set and
// reports the lit volume inside a bounded region and overall.
//
// Usage:
//
//	lattice [flags] [input]
//
// The input defaults to ./input.txt. Files ending in .lisp or .lat are
// evaluated as scripts; everything else uses the line format
// "on x=-20..26,y=-36..17,z=-47..7".
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/chazu/lattice/pkg/config"
	"github.com/chazu/lattice/pkg/geom"
	"github.com/chazu/lattice/pkg/space"
)

const defaultInput = "./input.txt"

func main() {
	var (
		configPath = flag.String("config", "", "path to a JSON run configuration")
		format     = flag.String("format", string(FormatAuto), "input format: text, lisp or auto")
		region     = flag.String("region", "", "bounded query region, e.g. x=-50..50,y=-50..50,z=-50..50")
		clip       = flag.Bool("clip", false, "clip members to the region instead of counting only contained ones")
		index      = flag.Bool("index", false, "use the interval-tree backend")
		stlPath    = flag.String("stl", "", "write the final set as an STL mesh to this path")
		meshPath   = flag.String("mesh", "", "write per-member triangle meshes as JSON to this path")
		validate   = flag.Bool("validate", false, "check the final set for overlaps and region straddlers")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	cfg := config.Empty()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	// Flags override the file.
	if *region != "" {
		cfg.SetRegion(*region)
	}
	if *clip {
		cfg.SetQueryMode(config.QueryClipped)
	}
	if *index {
		cfg.SetBackend(space.BackendIntervalTree)
	}
	if *verbose {
		cfg.SetVerbose(true)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	input := defaultInput
	if flag.NArg() > 0 {
		input = flag.Arg(0)
	}
	source, err := os.ReadFile(input)
	if err != nil {
		log.Fatalf("could not open input file: %v", err)
	}

	app := NewApp(cfg)
	report, err := app.Run(string(source), DetectFormat(input, Format(*format)), *validate)
	if err != nil {
		log.Fatalf("%s: %v", input, err)
	}
	fmt.Printf("=========== %s ===========\n%s", input, report)

	var clipRegion *geom.Cuboid
	if report.QueryMode == config.QueryClipped {
		clipRegion = &report.Region
	}
	if *stlPath != "" {
		if err := app.ExportSTL(report.Members, clipRegion, *stlPath); err != nil {
			log.Fatalf("%v", err)
		}
	}
	if *meshPath != "" {
		stats, err := app.ExportMesh(report.Members, clipRegion, *meshPath)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("Mesh: %s\n", stats)
	}
}
