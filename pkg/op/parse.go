package op

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/chazu/lattice/pkg/geom"
)

// ParseError reports a malformed instruction line. Err holds the
// underlying cause, if any.
type ParseError struct {
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// instructionPattern matches "on x=1..2,y=3..4,z=5..6".
var instructionPattern = regexp.MustCompile(`^(on|off)\s+(.*)$`)

// boundsPattern matches "x=1..2,y=3..4,z=5..6" with optional spaces after commas.
var boundsPattern = regexp.MustCompile(`^x=(-?\d+)\.\.(-?\d+),\s*y=(-?\d+)\.\.(-?\d+),\s*z=(-?\d+)\.\.(-?\d+)$`)

// ParseCuboid parses the bounds half of an instruction, e.g. "x=-50..50,y=-50..50,z=-50..50".
func ParseCuboid(s string) (geom.Cuboid, error) {
	m := boundsPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return geom.Cuboid{}, fmt.Errorf("malformed bounds %q, expected x=a..b,y=c..d,z=e..f", s)
	}

	var b [6]int64
	for i := range b {
		v, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return geom.Cuboid{}, fmt.Errorf("bound %q: %w", m[i+1], err)
		}
		b[i] = v
	}
	return geom.New(b[0], b[1], b[2], b[3], b[4], b[5])
}

// ParseLine parses a single instruction. lineNo is recorded on the result
// and on any error.
func ParseLine(line string, lineNo int) (Operation, error) {
	m := instructionPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Operation{}, &ParseError{Line: lineNo, Message: fmt.Sprintf("expected \"on\" or \"off\" instruction, got %q", line)}
	}

	c, err := ParseCuboid(m[2])
	if err != nil {
		return Operation{}, &ParseError{Line: lineNo, Message: err.Error(), Err: err}
	}

	o := Clear(c)
	if m[1] == "on" {
		o = Switch(c)
	}
	o.Line = lineNo
	return o, nil
}

// Parse reads one instruction per line from r. Blank lines and lines
// starting with '#' are skipped. The first malformed line aborts parsing.
func Parse(r io.Reader) ([]Operation, error) {
	var ops []Operation

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		o, err := ParseLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		ops = append(ops, o)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading instructions: %w", err)
	}
	return ops, nil
}

// ParseString is Parse over a string.
func ParseString(s string) ([]Operation, error) {
	return Parse(strings.NewReader(s))
}
