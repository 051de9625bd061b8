// Package matching pairs terms reported by only one of two annotation sources
// with their most similar counterpart on the other side.
package matching

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/algorithms"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/logging"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/metrics"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/parallel"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/similarity"
)

var (
	// ErrInvalidThreshold is returned for thresholds outside [0, 1].
	ErrInvalidThreshold = errors.New("similarity threshold must be within [0, 1]")

	// ErrScoringPanic is returned when a scoring task panicked.
	ErrScoringPanic = errors.New("candidate scoring panicked")
)

// Pair is a matched couple of terms. Score is always at or above the
// threshold the match ran with.
type Pair struct {
	TermA    ontology.TermID     `json:"term_a" yaml:"term_a"`
	TermB    ontology.TermID     `json:"term_b" yaml:"term_b"`
	Distance algorithms.Distance `json:"distance" yaml:"distance"`
	Score    float64             `json:"score" yaml:"score"`
}

// Result is the outcome of one Match call.
type Result struct {
	// Pairs are ordered by descending score, then by TermA and TermB.
	Pairs []Pair
	// Average is the mean score over every scored candidate, including those
	// below threshold and unreachable ones.
	Average float64
	// Candidates is the number of scored (a, b) combinations.
	Candidates int
	// SkippedA and SkippedB list input terms absent from the ontology.
	SkippedA []ontology.TermID
	SkippedB []ontology.TermID
}

// Options configures a Matcher. Zero values select defaults.
type Options struct {
	Scorer  similarity.DistanceScorer
	Workers int
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Matcher scores and pairs terms using distances from a PathFinder.
type Matcher struct {
	finder  *algorithms.PathFinder
	scorer  similarity.DistanceScorer
	workers int
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewMatcher creates a Matcher. The same scorer is used for averaging and
// for thresholding.
func NewMatcher(finder *algorithms.PathFinder, opts Options) *Matcher {
	scorer := opts.Scorer
	if scorer == nil {
		scorer = similarity.InverseDistance{}
	}
	return &Matcher{
		finder:  finder,
		scorer:  scorer,
		workers: opts.Workers,
		logger:  logging.OrNop(opts.Logger).With(logging.Component("matching")),
		metrics: opts.Metrics,
	}
}

// Scorer returns the scorer in use.
func (m *Matcher) Scorer() similarity.DistanceScorer {
	return m.scorer
}

// candidate is a scored (a, b) combination.
type candidate struct {
	a, b     ontology.TermID
	distance algorithms.Distance
	score    float64
}

// Match scores every combination of onlyA and onlyB and greedily selects
// non-overlapping pairs at or above threshold, best score first. Each term
// takes part in at most one pair. Terms unknown to the ontology are skipped
// and reported in the result.
func (m *Matcher) Match(onlyA, onlyB []ontology.TermID, threshold float64) (*Result, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}

	a, skippedA := m.known(uniqueSorted(onlyA), metrics.SideA)
	b, skippedB := m.known(uniqueSorted(onlyB), metrics.SideB)

	result := &Result{
		Pairs:    []Pair{},
		SkippedA: skippedA,
		SkippedB: skippedB,
	}
	if len(a) == 0 || len(b) == 0 {
		return result, nil
	}

	candidates, err := m.score(a, b)
	if err != nil {
		return nil, err
	}

	var sum float64
	for _, c := range candidates {
		sum += c.score
	}
	result.Candidates = len(candidates)
	result.Average = sum / float64(len(candidates))
	result.Pairs = selectPairs(candidates, threshold)

	m.logger.Debug("semantic matching complete",
		logging.Count(len(result.Pairs)),
		logging.Int("candidates", result.Candidates),
		logging.Float64("average", result.Average),
		logging.Threshold(threshold))

	return result, nil
}

// resolvedTerm keeps the reported id next to the node used for traversal.
type resolvedTerm struct {
	id   ontology.TermID
	node ontology.TermID
}

func (m *Matcher) known(terms []ontology.TermID, side string) ([]resolvedTerm, []ontology.TermID) {
	g := m.finder.Graph()
	out := make([]resolvedTerm, 0, len(terms))
	var skipped []ontology.TermID
	for _, t := range terms {
		node, ok := g.Resolve(t)
		if !ok {
			skipped = append(skipped, t)
			m.logger.Warn("term not in ontology, excluded from semantic matching",
				logging.Term(string(t)),
				logging.Side(side))
			if m.metrics != nil {
				m.metrics.RecordUnknownTerm(side)
			}
			continue
		}
		out = append(out, resolvedTerm{id: t, node: node})
	}
	return out, skipped
}

// score fills one row of candidates per A-term on the worker pool. Rows are
// pre-allocated so the output does not depend on scheduling.
func (m *Matcher) score(a, b []resolvedTerm) ([]candidate, error) {
	rows := make([][]candidate, len(a))
	errs := make([]error, len(a))

	panics, err := parallel.ForEach(m.workers, len(a), func(i int) {
		row := make([]candidate, len(b))
		for j, tb := range b {
			d, err := m.finder.Distance(a[i].node, tb.node)
			if err != nil {
				errs[i] = err
				return
			}
			row[j] = candidate{a: a[i].id, b: tb.id, distance: d, score: m.scorer.Score(d)}
		}
		rows[i] = row
	}, parallel.WithLogger(m.logger))
	if err != nil {
		return nil, fmt.Errorf("start scoring pool: %w", err)
	}
	if panics > 0 {
		return nil, fmt.Errorf("%w: %d tasks", ErrScoringPanic, panics)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	out := make([]candidate, 0, len(a)*len(b))
	for _, row := range rows {
		out = append(out, row...)
	}
	return out, nil
}

// selectPairs sorts candidates by descending score with (a, b) as tie-break
// and takes every pair whose terms are both still free.
func selectPairs(candidates []candidate, threshold float64) []Pair {
	sorted := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.score >= threshold {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].score != sorted[j].score {
			return sorted[i].score > sorted[j].score
		}
		if sorted[i].a != sorted[j].a {
			return sorted[i].a < sorted[j].a
		}
		return sorted[i].b < sorted[j].b
	})

	usedA := make(map[ontology.TermID]struct{})
	usedB := make(map[ontology.TermID]struct{})
	pairs := []Pair{}
	for _, c := range sorted {
		if _, taken := usedA[c.a]; taken {
			continue
		}
		if _, taken := usedB[c.b]; taken {
			continue
		}
		usedA[c.a] = struct{}{}
		usedB[c.b] = struct{}{}
		pairs = append(pairs, Pair{TermA: c.a, TermB: c.b, Distance: c.distance, Score: c.score})
	}
	return pairs
}

func uniqueSorted(terms []ontology.TermID) []ontology.TermID {
	out := append([]ontology.TermID(nil), terms...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	n := 0
	for i, t := range out {
		if i > 0 && t == out[n-1] {
			continue
		}
		out[n] = t
		n++
	}
	return out[:n]
}
