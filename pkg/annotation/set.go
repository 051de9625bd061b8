// Package annotation models a set of GO terms reported by one annotation
// source, each with an optional confidence score.
package annotation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/validation"
)

// ErrTooManyTerms is returned when a set exceeds validation.MaxTerms.
var ErrTooManyTerms = errors.New("annotation set exceeds maximum size")

// Entry is one reported term. A nil Confidence means the source did not
// report one, which is distinct from a confidence of zero.
type Entry struct {
	Term       ontology.TermID `json:"term" yaml:"term" validate:"required,goterm"`
	Confidence *float64        `json:"confidence,omitempty" yaml:"confidence,omitempty" validate:"omitempty,finite,gte=0,lte=1"`
}

// Score returns an entry with a confidence.
func Score(term ontology.TermID, confidence float64) Entry {
	return Entry{Term: term, Confidence: &confidence}
}

// Bare returns an entry without a confidence.
func Bare(term ontology.TermID) Entry {
	return Entry{Term: term}
}

// Set is an immutable collection of unique terms from a single source.
type Set struct {
	source string
	terms  map[ontology.TermID]*float64
}

// NewSet validates entries and builds a Set. When a term is reported more than
// once the highest confidence wins; a reported confidence beats none.
func NewSet(source string, entries []Entry) (*Set, error) {
	if len(entries) > validation.MaxTerms {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyTerms, len(entries), validation.MaxTerms)
	}

	s := &Set{
		source: source,
		terms:  make(map[ontology.TermID]*float64, len(entries)),
	}
	for i := range entries {
		e := entries[i]
		if err := validation.Struct(&e); err != nil {
			return nil, fmt.Errorf("%s entry %d: %w", source, i, err)
		}
		s.add(e)
	}
	return s, nil
}

// FromTerms builds a Set of terms without confidence.
func FromTerms(source string, terms ...ontology.TermID) (*Set, error) {
	entries := make([]Entry, len(terms))
	for i, t := range terms {
		entries[i] = Bare(t)
	}
	return NewSet(source, entries)
}

func (s *Set) add(e Entry) {
	existing, seen := s.terms[e.Term]
	switch {
	case !seen, existing == nil:
		s.terms[e.Term] = copyScore(e.Confidence)
	case e.Confidence != nil && *e.Confidence > *existing:
		s.terms[e.Term] = copyScore(e.Confidence)
	}
}

func copyScore(c *float64) *float64 {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

// Source returns the name of the annotation source.
func (s *Set) Source() string {
	return s.source
}

// Len returns the number of distinct terms.
func (s *Set) Len() int {
	return len(s.terms)
}

// Has reports whether id is in the set.
func (s *Set) Has(id ontology.TermID) bool {
	_, ok := s.terms[id]
	return ok
}

// Confidence returns the confidence reported for id, if any.
func (s *Set) Confidence(id ontology.TermID) (float64, bool) {
	c, ok := s.terms[id]
	if !ok || c == nil {
		return 0, false
	}
	return *c, true
}

// HasConfidence reports whether any term carries a confidence.
func (s *Set) HasConfidence() bool {
	for _, c := range s.terms {
		if c != nil {
			return true
		}
	}
	return false
}

// Terms returns the terms in lexicographic order.
func (s *Set) Terms() []ontology.TermID {
	out := make([]ontology.TermID, 0, len(s.terms))
	for id := range s.terms {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Confidences returns a copy of the reported confidences. Terms without one
// are omitted.
func (s *Set) Confidences() map[ontology.TermID]float64 {
	out := make(map[ontology.TermID]float64)
	for id, c := range s.terms {
		if c != nil {
			out[id] = *c
		}
	}
	return out
}

// Entries returns the set contents ordered by term.
func (s *Set) Entries() []Entry {
	terms := s.Terms()
	out := make([]Entry, len(terms))
	for i, id := range terms {
		out[i] = Entry{Term: id, Confidence: copyScore(s.terms[id])}
	}
	return out
}
