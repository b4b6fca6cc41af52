package engine

import (
	"strings"
	"testing"

	"github.com/chazu/lattice/pkg/geom"
	"github.com/chazu/lattice/pkg/op"
	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"simple keyword", `(cuboid :x a)`, `(cuboid "__kw_x" a)`},
		{"multiple keywords", `(cuboid :x a :y b)`, `(cuboid "__kw_x" a "__kw_y" b)`},
		{"keyword in string preserved", `"thing with :keyword inside"`, `"thing with :keyword inside"`},
		{"escaped quote in string", `"a \" :b" :c`, `"a \" :b" "__kw_c"`},
		{"backtick string preserved", "`raw :x`", "`raw :x`"},
		{"assignment operator preserved", `(def x := 10)`, `(def x := 10)`},
		{"kebab-case identifier", `(def core-region r)`, `(def core_region r)`},
		{"minus operator preserved", `(- 10 5)`, `(- 10 5)`},
		{"negative literal preserved", `(span -5 5)`, `(span -5 5)`},
		{"double semicolon comment", `;; comment with :keyword`, `// comment with :keyword`},
		{"single semicolon comment", "; simple comment\n(on c)", "// simple comment\n(on \"__kw_line\" 2 c)"},
		{"toggle gets line", "(on c)\n\n( off c)", "(on \"__kw_line\" 1 c)\n\n( off \"__kw_line\" 3 c)"},
		{"toggle without args", "(off)", "(off \"__kw_line\" 1)"},
		{"line counts through strings", "(def s \"a\nb\")\n(on c)", "(def s \"a\nb\")\n(on \"__kw_line\" 3 c)"},
		{"other heads untouched", "(onward c) (off_x c) (on-top c)", "(onward c) (off_x c) (on_top c)"},
		{"hyphen in keyword preserved", `:half-open`, `"__kw_half-open"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.input); got != tt.expect {
				t.Errorf("preprocessSource(%q)\n got: %q\nwant: %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// DSL tests
// ---------------------------------------------------------------------------

func evalOK(t *testing.T, source string) *Program {
	t.Helper()
	p, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if p == nil {
		t.Fatal("expected non-nil program")
	}
	return p
}

func evalFails(t *testing.T, source, expect string) {
	t.Helper()
	p, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil program, got %+v", p)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	var all []string
	for _, e := range evalErrs {
		all = append(all, e.Message)
	}
	if joined := strings.Join(all, "\n"); !strings.Contains(joined, expect) {
		t.Errorf("eval errors %q should mention %q", joined, expect)
	}
}

func atLine(o op.Operation, line int) op.Operation {
	o.Line = line
	return o
}

func TestPositionalCuboid(t *testing.T) {
	p := evalOK(t, `
(on (cuboid 10 12 10 12 10 12))
(on (cuboid 11 13 11 13 11 13))
(off (cuboid 9 11 9 11 9 11))
(on (cuboid 10 10 10 10 10 10))
`)
	want := []op.Operation{
		atLine(op.Switch(geom.MustNew(10, 12, 10, 12, 10, 12)), 2),
		atLine(op.Switch(geom.MustNew(11, 13, 11, 13, 11, 13)), 3),
		atLine(op.Clear(geom.MustNew(9, 11, 9, 11, 9, 11)), 4),
		atLine(op.Switch(geom.MustNew(10, 10, 10, 10, 10, 10)), 5),
	}
	if diff := cmp.Diff(want, p.Operations); diff != "" {
		t.Errorf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywordCuboidWithSpans(t *testing.T) {
	p := evalOK(t, `(on (cuboid :x (span -5 5) :y (span 0 1) :z (span 2 2)))`)
	if len(p.Operations) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(p.Operations))
	}
	if got, want := p.Operations[0].Box, geom.MustNew(-5, 5, 0, 1, 2, 2); got != want {
		t.Errorf("box = %s, want %s", got, want)
	}
}

func TestVariablesAndArithmetic(t *testing.T) {
	p := evalOK(t, `
(def edge 9)
(def big-cube (cuboid 0 edge 0 edge 0 edge))
(on big-cube)
(off (cuboid 3 (- edge 3) 3 (- edge 3) 3 (- edge 3)))
`)
	want := []op.Operation{
		atLine(op.Switch(geom.MustNew(0, 9, 0, 9, 0, 9)), 4),
		atLine(op.Clear(geom.MustNew(3, 6, 3, 6, 3, 6)), 5),
	}
	if diff := cmp.Diff(want, p.Operations); diff != "" {
		t.Errorf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestRegion(t *testing.T) {
	p := evalOK(t, `(region (cuboid :x (span -50 50) :y (span -50 50) :z (span -50 50)))`)
	if p.Region == nil {
		t.Fatal("expected region to be set")
	}
	if got, want := *p.Region, geom.MustNew(-50, 50, -50, 50, -50, 50); got != want {
		t.Errorf("region = %s, want %s", got, want)
	}
	if len(p.Operations) != 0 {
		t.Errorf("region must not add operations, got %d", len(p.Operations))
	}
}

func TestCommentsAreIgnored(t *testing.T) {
	p := evalOK(t, `
;; switch on a single cube
(on (cuboid 0 1 0 1 0 1)) ; trailing comment
`)
	if len(p.Operations) != 1 {
		t.Errorf("expected 1 operation, got %d", len(p.Operations))
	}
}

func TestToggleLineNumbers(t *testing.T) {
	p := evalOK(t, `;; header
(def c (cuboid 0 1 0 1 0 1))

(on c)
(off
  (cuboid 0 0 0 0 0 0))
(on (cuboid :x (span 5 6) :y (span 5 6) :z (span 5 6))) (off c)
`)
	var lines []int
	for _, o := range p.Operations {
		lines = append(lines, o.Line)
	}
	if diff := cmp.Diff([]int{4, 5, 7, 7}, lines); diff != "" {
		t.Errorf("operation lines mismatch (-want +got):\n%s", diff)
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		expect string
	}{
		{"inverted positional bounds", `(on (cuboid 5 1 0 0 0 0))`, "min exceeds max"},
		{"too few bounds", `(on (cuboid 0 1 0 1))`, "expected 6 bounds"},
		{"float bound", `(on (cuboid 0 1.5 0 1 0 1))`, "expected integer"},
		{"missing axis", `(on (cuboid :x (span 0 1) :y (span 0 1)))`, "missing :z span"},
		{"axis not a span", `(on (cuboid :x 1 :y (span 0 1) :z (span 0 1)))`, "expected span"},
		{"inverted span", `(span 3 2)`, "exceeds hi"},
		{"span arity", `(span 3)`, "exactly 2 arguments"},
		{"on without cuboid", `(on 5)`, "expected cuboid"},
		{"off arity", `(off)`, "exactly 1 cuboid"},
		{"region arity", `(region)`, "exactly 1 cuboid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalFails(t, tt.source, tt.expect)
		})
	}
}

func TestSexpStrings(t *testing.T) {
	s := &sexpSpan{lo: -1, hi: 4}
	if got := s.SexpString(nil); got != "(span -1 4)" {
		t.Errorf("span SexpString = %q", got)
	}
	c := &sexpCuboid{box: geom.MustNew(0, 1, 2, 3, 4, 5)}
	if got := c.SexpString(nil); got != "(cuboid x=0..1,y=2..3,z=4..5)" {
		t.Errorf("cuboid SexpString = %q", got)
	}
}
