package compare

import (
	"errors"
	"fmt"
	"sort"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/algorithms"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/annotation"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/logging"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/matching"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/metrics"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/similarity"
)

var (
	// ErrNilSet is returned when either annotation set is missing.
	ErrNilSet = errors.New("annotation set is nil")

	// ErrNilGraph is returned by NewEngine without an ontology.
	ErrNilGraph = errors.New("ontology graph is nil")
)

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Scorer    similarity.DistanceScorer
	Workers   int
	CacheSize int
	Logger    logging.Logger
	Metrics   *metrics.Registry
}

// Engine compares annotation sets against one loaded ontology.
type Engine struct {
	graph   *ontology.Graph
	opts    Options
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewEngine creates an Engine over g, which must not be modified afterwards.
func NewEngine(g *ontology.Graph, opts Options) (*Engine, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if opts.Scorer == nil {
		opts.Scorer = similarity.InverseDistance{}
	}
	return &Engine{
		graph:   g,
		opts:    opts,
		logger:  logging.OrNop(opts.Logger).With(logging.Component("compare")),
		metrics: opts.Metrics,
	}, nil
}

// Graph returns the ontology the engine compares against.
func (e *Engine) Graph() *ontology.Graph {
	return e.graph
}

// Compare computes exact overlap statistics for a and b, then pairs the
// terms unique to each side by semantic similarity. Distances are cached for
// the duration of the call only.
func (e *Engine) Compare(a, b *annotation.Set, threshold float64) (*Result, error) {
	if a == nil || b == nil {
		return nil, ErrNilSet
	}

	timer := logging.StartTimer(e.logger, "comparison finished",
		logging.Source(a.Source()+"/"+b.Source()))

	result, err := e.compare(a, b, threshold)
	if e.metrics != nil {
		var pairs int
		var jaccard float64
		if result != nil {
			pairs, jaccard = result.SemanticPairsCount, result.Jaccard
		}
		e.metrics.RecordComparison(timer.Elapsed(), pairs, jaccard, err)
	}
	if err != nil {
		timer.EndError(err)
		return nil, err
	}

	timer.End(
		logging.Int("common", result.CommonCount),
		logging.Float64("jaccard", result.Jaccard),
		logging.Int("semantic_pairs", result.SemanticPairsCount),
		logging.Float64("semantic_avg_sim", result.SemanticAvgSim))
	return result, nil
}

func (e *Engine) compare(a, b *annotation.Set, threshold float64) (*Result, error) {
	result := &Result{
		SourceA:         a.Source(),
		SourceB:         b.Source(),
		CountA:          a.Len(),
		CountB:          b.Len(),
		Threshold:       threshold,
		Scorer:          e.opts.Scorer.Name(),
		OntologyVersion: e.graph.Version(),
	}

	result.Common, result.OnlyA, result.OnlyB = partition(a, b)
	result.CommonCount = len(result.Common)
	result.OnlyACount = len(result.OnlyA)
	result.OnlyBCount = len(result.OnlyB)
	result.Jaccard = jaccard(result.CommonCount, result.CountA, result.CountB)

	result.HighConfidenceCommon = highConfidence(result.Common, a, b)
	result.HighConfidenceCount = len(result.HighConfidenceCommon)

	if a.HasConfidence() {
		result.ScoresA = a.Confidences()
	}
	if b.HasConfidence() {
		result.ScoresB = b.Confidences()
	}

	finder, err := algorithms.NewPathFinder(e.graph, algorithms.PathFinderOptions{
		CacheSize:   e.opts.CacheSize,
		OnTraversal: e.onTraversal,
	})
	if err != nil {
		return nil, err
	}
	matcher := matching.NewMatcher(finder, matching.Options{
		Scorer:  e.opts.Scorer,
		Workers: e.opts.Workers,
		Logger:  e.logger,
		Metrics: e.metrics,
	})

	match, err := matcher.Match(result.OnlyA, result.OnlyB, threshold)
	if err != nil {
		return nil, fmt.Errorf("semantic matching: %w", err)
	}
	result.SemanticPairs = match.Pairs
	result.SemanticPairsCount = len(match.Pairs)
	result.SemanticAvgSim = match.Average
	result.SemanticCandidates = match.Candidates
	result.SkippedTerms = append(append([]ontology.TermID(nil), match.SkippedA...), match.SkippedB...)
	sortTerms(result.SkippedTerms)

	return result, nil
}

func (e *Engine) onTraversal(source ontology.TermID, visited int) {
	if e.metrics != nil {
		e.metrics.RecordTraversal(visited)
	}
}

// partition splits the union of a and b into the intersection and the two
// differences, each sorted.
func partition(a, b *annotation.Set) (common, onlyA, onlyB []ontology.TermID) {
	common = []ontology.TermID{}
	onlyA = []ontology.TermID{}
	onlyB = []ontology.TermID{}
	for _, t := range a.Terms() {
		if b.Has(t) {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range b.Terms() {
		if !a.Has(t) {
			onlyB = append(onlyB, t)
		}
	}
	return common, onlyA, onlyB
}

// jaccard is |A∩B| / |A∪B|, defined as 0 when both sets are empty.
func jaccard(common, countA, countB int) float64 {
	union := countA + countB - common
	if union == 0 {
		return 0.0
	}
	return float64(common) / float64(union)
}

// highConfidence keeps the common terms for which either side reported a
// confidence at or above HighConfidenceThreshold. Terms with no reported
// confidence never qualify.
func highConfidence(common []ontology.TermID, a, b *annotation.Set) []ontology.TermID {
	out := []ontology.TermID{}
	for _, t := range common {
		ca, okA := a.Confidence(t)
		cb, okB := b.Confidence(t)
		if (okA && ca >= HighConfidenceThreshold) || (okB && cb >= HighConfidenceThreshold) {
			out = append(out, t)
		}
	}
	return out
}

func sortTerms(terms []ontology.TermID) {
	sort.Slice(terms, func(i, j int) bool { return terms[i] < terms[j] })
}
