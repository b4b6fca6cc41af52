// Package op defines toggle operations and the line-oriented instruction
// format they are read from.
package op

import (
	"fmt"

	"github.com/chazu/lattice/pkg/geom"
)

// Polarity says whether an operation switches its cuboid on or off.
type Polarity int

const (
	Off Polarity = iota
	On
)

func (p Polarity) String() string {
	switch p {
	case On:
		return "on"
	case Off:
		return "off"
	default:
		return fmt.Sprintf("Polarity(%d)", int(p))
	}
}

// Operation marks every lattice point of Box on or off.
// Operations are applied strictly in order; later ones win.
type Operation struct {
	Polarity Polarity
	Box      geom.Cuboid
	Line     int // 1-based source line, 0 when not read from text
}

// Switch returns an "on" operation for c.
func Switch(c geom.Cuboid) Operation {
	return Operation{Polarity: On, Box: c}
}

// Clear returns an "off" operation for c.
func Clear(c geom.Cuboid) Operation {
	return Operation{Polarity: Off, Box: c}
}

// String renders o in the instruction grammar.
func (o Operation) String() string {
	return o.Polarity.String() + " " + o.Box.String()
}
