package lessongraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies which graph or ordering rule a proposed change breaks.
type Kind string

const (
	KindSelfReference      Kind = "self_reference"
	KindCircularDependency Kind = "circular_dependency"
	KindDuplicateSequence  Kind = "duplicate_sequence"
)

// Violation describes a rejected structural change.
//
// LessonID is the lesson being changed. OtherID is the second lesson involved: the
// candidate prerequisite for edge checks, or the lesson already holding the sequence
// for sequence checks. Path is only set for circular dependencies and lists the cycle
// the new edge would close, starting and ending at LessonID.
type Violation struct {
	Kind     Kind
	LessonID uuid.UUID
	OtherID  uuid.UUID
	Sequence int
	Path     []uuid.UUID
}

func (v *Violation) Error() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindSelfReference:
		return fmt.Sprintf("lesson %s cannot be a prerequisite of itself", v.LessonID)
	case KindCircularDependency:
		msg := fmt.Sprintf("adding prerequisite %s to lesson %s would create a circular dependency", v.OtherID, v.LessonID)
		if len(v.Path) > 0 {
			parts := make([]string, 0, len(v.Path))
			for _, id := range v.Path {
				parts = append(parts, id.String())
			}
			msg += " (" + strings.Join(parts, " -> ") + ")"
		}
		return msg
	case KindDuplicateSequence:
		if v.OtherID != uuid.Nil {
			return fmt.Sprintf("sequence %d is already used by lesson %s", v.Sequence, v.OtherID)
		}
		return fmt.Sprintf("sequence %d is already used in the module", v.Sequence)
	default:
		return string(v.Kind)
	}
}

// KindOf returns the violation kind carried by err, or "" when err is not a violation.
func KindOf(err error) Kind {
	var v *Violation
	if !errors.As(err, &v) || v == nil {
		return ""
	}
	return v.Kind
}

// IsKind reports whether err is a violation of the given kind.
func IsKind(err error, kind Kind) bool {
	return kind != "" && KindOf(err) == kind
}
