// Package config loads Lattice run configuration from JSON.
//
// Every field is optional. Getters return the built-in default for fields
// that were not set, so partial files are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chazu/lattice/pkg/geom"
	"github.com/chazu/lattice/pkg/op"
	"github.com/chazu/lattice/pkg/space"
)

// Query modes for the bounded volume.
const (
	QueryContained = "contained" // members fully inside the region only
	QueryClipped   = "clipped"   // every member clipped to the region
)

// DefaultRegion is the bounded query region used when none is configured.
const DefaultRegion = "x=-50..50,y=-50..50,z=-50..50"

// Defaults for the remaining fields.
const (
	DefaultMeshCells   = 200
	DefaultEvalTimeout = 5 * time.Second
	maxFileSize        = 1 * 1024 * 1024 // 1MB
)

// Config is the root configuration for a run.
type Config struct {
	Region      *string `json:"region,omitempty"`       // instruction grammar, e.g. "x=-50..50,y=-50..50,z=-50..50"
	QueryMode   *string `json:"query_mode,omitempty"`   // "contained" or "clipped"
	Backend     *string `json:"backend,omitempty"`      // "slice" or "interval-tree"
	MeshCells   *int    `json:"mesh_cells,omitempty"`   // marching cubes resolution for STL export
	EvalTimeout *string `json:"eval_timeout,omitempty"` // duration string like "5s"
	Verbose     *bool   `json:"verbose,omitempty"`
}

// Helper functions to create pointers
func ptrString(v string) *string { return &v }
func ptrBool(v bool) *bool       { return &v }

// Empty returns a Config with every field unset.
func Empty() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file. The file must have a .json extension
// and be no larger than 1MB.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that every set field holds a usable value.
func (c *Config) Validate() error {
	if c.Region != nil {
		if _, err := op.ParseCuboid(*c.Region); err != nil {
			return fmt.Errorf("region: %w", err)
		}
	}
	if c.QueryMode != nil && *c.QueryMode != QueryContained && *c.QueryMode != QueryClipped {
		return fmt.Errorf("query_mode must be %q or %q, got %q", QueryContained, QueryClipped, *c.QueryMode)
	}
	if c.Backend != nil {
		switch space.Backend(*c.Backend) {
		case space.BackendSlice, space.BackendIntervalTree:
		default:
			return fmt.Errorf("backend must be %q or %q, got %q", space.BackendSlice, space.BackendIntervalTree, *c.Backend)
		}
	}
	if c.MeshCells != nil && *c.MeshCells <= 0 {
		return fmt.Errorf("mesh_cells must be positive, got %d", *c.MeshCells)
	}
	if c.EvalTimeout != nil && *c.EvalTimeout != "" {
		d, err := time.ParseDuration(*c.EvalTimeout)
		if err != nil {
			return fmt.Errorf("invalid eval_timeout '%s': %w", *c.EvalTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("eval_timeout must be positive, got %s", d)
		}
	}
	return nil
}

// GetRegion returns the bounded query region or the default.
func (c *Config) GetRegion() geom.Cuboid {
	if c.Region != nil {
		if r, err := op.ParseCuboid(*c.Region); err == nil {
			return r
		}
	}
	r, _ := op.ParseCuboid(DefaultRegion)
	return r
}

// GetQueryMode returns the query_mode value or the default.
func (c *Config) GetQueryMode() string {
	if c.QueryMode == nil {
		return QueryContained // default
	}
	return *c.QueryMode
}

// GetBackend returns the backend value or the default.
func (c *Config) GetBackend() space.Backend {
	if c.Backend == nil {
		return space.BackendSlice // default
	}
	return space.Backend(*c.Backend)
}

// GetMeshCells returns the mesh_cells value or the default.
func (c *Config) GetMeshCells() int {
	if c.MeshCells == nil {
		return DefaultMeshCells
	}
	return *c.MeshCells
}

// GetEvalTimeout parses and returns the EvalTimeout as a time.Duration.
func (c *Config) GetEvalTimeout() time.Duration {
	if c.EvalTimeout == nil || *c.EvalTimeout == "" {
		return DefaultEvalTimeout
	}
	d, err := time.ParseDuration(*c.EvalTimeout)
	if err != nil {
		return DefaultEvalTimeout // default on parse error
	}
	return d
}

// GetVerbose returns the verbose value or the default.
func (c *Config) GetVerbose() bool {
	if c.Verbose == nil {
		return false
	}
	return *c.Verbose
}

// SetRegion overrides the region, typically from a command-line flag.
func (c *Config) SetRegion(r string) { c.Region = ptrString(r) }

// SetQueryMode overrides the query mode.
func (c *Config) SetQueryMode(m string) { c.QueryMode = ptrString(m) }

// SetBackend overrides the accumulator backend.
func (c *Config) SetBackend(b space.Backend) { c.Backend = ptrString(string(b)) }

// SetVerbose overrides verbose logging.
func (c *Config) SetVerbose(v bool) { c.Verbose = ptrBool(v) }
