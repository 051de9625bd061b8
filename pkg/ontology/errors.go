package ontology

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTerm       = errors.New("term not in ontology")
	ErrInvalidTermID     = errors.New("invalid GO term id")
	ErrMalformedOBO      = errors.New("malformed OBO document")
	ErrUnsupportedFormat = errors.New("unsupported ontology format")
)

// UnknownTermError reports a term id that is not a node of the loaded graph.
// Callers decide whether to skip the term or abort.
type UnknownTermError struct {
	Op   string // operation that needed the term, e.g. "distance"
	Term TermID
}

func (e *UnknownTermError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Term, ErrUnknownTerm)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Term, ErrUnknownTerm)
}

func (e *UnknownTermError) Unwrap() error {
	return ErrUnknownTerm
}

// UnknownTerm builds an UnknownTermError for op.
func UnknownTerm(op string, id TermID) error {
	return &UnknownTermError{Op: op, Term: id}
}

// IsUnknownTerm reports whether err is, or wraps, an unknown-term error.
func IsUnknownTerm(err error) bool {
	return errors.Is(err, ErrUnknownTerm)
}
