package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/lattice/pkg/geom"
	"github.com/chazu/lattice/pkg/op"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSpan is an inclusive integer interval returned by (span lo hi).
type sexpSpan struct {
	lo, hi int64
}

func (s *sexpSpan) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(span %d %d)", s.lo, s.hi)
}
func (s *sexpSpan) Type() *zygo.RegisteredType { return nil }

// sexpCuboid wraps a geom.Cuboid returned by (cuboid ...).
type sexpCuboid struct {
	box geom.Cuboid
}

func (c *sexpCuboid) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(cuboid %s)", c.box)
}
func (c *sexpCuboid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument helpers
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string and returns the
// keyword name without its prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// toInt64 extracts an integer coordinate. Floats are rejected: the lattice
// has integer points only.
func toInt64(s zygo.Sexp) (int64, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toSpan(s zygo.Sexp) (*sexpSpan, error) {
	if v, ok := s.(*sexpSpan); ok {
		return v, nil
	}
	return nil, fmt.Errorf("expected span, got %T (%s)", s, s.SexpString(nil))
}

func toCuboid(s zygo.Sexp) (geom.Cuboid, error) {
	if v, ok := s.(*sexpCuboid); ok {
		return v.box, nil
	}
	return geom.Cuboid{}, fmt.Errorf("expected cuboid, got %T (%s)", s, s.SexpString(nil))
}

// cuboidFromArgs accepts either six positional integers or :x :y :z spans.
func cuboidFromArgs(pa kwArgs) (geom.Cuboid, error) {
	if len(pa.positional) > 0 {
		if len(pa.positional) != 6 || len(pa.kw) != 0 {
			return geom.Cuboid{}, fmt.Errorf("expected 6 bounds (x1 x2 y1 y2 z1 z2) or :x :y :z spans, got %d positional arguments", len(pa.positional))
		}
		var b [6]int64
		for i, a := range pa.positional {
			v, err := toInt64(a)
			if err != nil {
				return geom.Cuboid{}, fmt.Errorf("bound %d: %w", i+1, err)
			}
			b[i] = v
		}
		return geom.New(b[0], b[1], b[2], b[3], b[4], b[5])
	}

	var spans [3]*sexpSpan
	for i, axis := range []string{"x", "y", "z"} {
		v, ok := pa.kw[axis]
		if !ok {
			return geom.Cuboid{}, fmt.Errorf("missing :%s span", axis)
		}
		s, err := toSpan(v)
		if err != nil {
			return geom.Cuboid{}, fmt.Errorf("%s: %w", axis, err)
		}
		spans[i] = s
	}
	return geom.New(spans[0].lo, spans[0].hi, spans[1].lo, spans[1].hi, spans[2].lo, spans[2].hi)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the Lattice DSL into a zygomys environment.
// Toggle builtins append to prog in call order.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, prog *Program) {

	// (span -5 5)
	env.AddFunction("span", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("span requires exactly 2 arguments, got %d", len(args))
		}
		lo, err := toInt64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("span: lo: %w", err)
		}
		hi, err := toInt64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("span: hi: %w", err)
		}
		if lo > hi {
			return zygo.SexpNull, fmt.Errorf("span: lo %d exceeds hi %d", lo, hi)
		}
		return &sexpSpan{lo: lo, hi: hi}, nil
	})

	// (cuboid 0 9 0 9 0 9)
	// (cuboid :x (span 0 9) :y (span 0 9) :z (span 0 9))
	env.AddFunction("cuboid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		c, err := cuboidFromArgs(parseArgs(args))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cuboid: %w", err)
		}
		return &sexpCuboid{box: c}, nil
	})

	// (on c) / (off c); preprocessSource adds :line N
	toggle := func(name string, build func(geom.Cuboid) op.Operation) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 cuboid, got %d arguments", name, len(pa.positional))
			}
			c, err := toCuboid(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			o := build(c)
			if v, ok := pa.kw[lineKW]; ok {
				line, err := toInt64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: line: %w", name, err)
				}
				o.Line = int(line)
			}
			prog.Operations = append(prog.Operations, o)
			return pa.positional[0], nil
		}
	}
	env.AddFunction("on", toggle("on", op.Switch))
	env.AddFunction("off", toggle("off", op.Clear))

	// (region (cuboid -50 50 -50 50 -50 50))
	env.AddFunction("region", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("region requires exactly 1 cuboid, got %d arguments", len(args))
		}
		c, err := toCuboid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("region: %w", err)
		}
		prog.Region = &c
		return args[0], nil
	})
}
