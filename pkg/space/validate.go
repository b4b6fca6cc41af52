package space

import (
	"fmt"

	"github.com/chazu/lattice/pkg/geom"
)

// ValidationSeverity indicates whether a finding breaks an invariant or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // invariant broken
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single finding about a member collection.
type ValidationError struct {
	Index    int    // offending member
	Other    int    // second member for pairwise findings, -1 otherwise
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Other >= 0 {
		return fmt.Sprintf("[%s] members %d and %d: %s", e.Severity, e.Index, e.Other, e.Message)
	}
	return fmt.Sprintf("[%s] member %d: %s", e.Severity, e.Index, e.Message)
}

// Validate checks the disjointness invariant pairwise. An empty result means
// no two members share a lattice point. Quadratic in len(members).
func Validate(members []geom.Cuboid) []ValidationError {
	var errs []ValidationError
	for i := range members {
		for j := i + 1; j < len(members); j++ {
			if !members[i].Intersects(members[j]) {
				continue
			}
			shared := members[i].Intersection(members[j])
			errs = append(errs, ValidationError{
				Index:    i,
				Other:    j,
				Message:  fmt.Sprintf("overlap %s (%d points)", shared, shared.Volume()),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// ValidateRegion warns about members that cross the boundary of region.
// Those are exactly the members VolumeWithin leaves out even though part of
// them lies inside.
func ValidateRegion(members []geom.Cuboid, region geom.Cuboid) []ValidationError {
	var warnings []ValidationError
	for i, m := range members {
		if region.Contains(m) {
			continue
		}
		inside, ok := m.Clip(region)
		if !ok {
			continue
		}
		warnings = append(warnings, ValidationError{
			Index:    i,
			Other:    -1,
			Message:  fmt.Sprintf("%s straddles region %s, %d points inside are not counted", m, region, inside.Volume()),
			Severity: SeverityWarning,
		})
	}
	return warnings
}
