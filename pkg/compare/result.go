// Package compare cross-validates two annotation sets against the GO graph,
// combining exact overlap statistics with path-based semantic matching.
package compare

import (
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/matching"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
)

// HighConfidenceThreshold is the confidence at or above which a common term
// counts as high-confidence.
const HighConfidenceThreshold = 0.8

// DefaultThreshold is the minimum similarity for a semantic pair.
const DefaultThreshold = 0.7

// Result is the full comparison of two annotation sets. All term lists are
// sorted. A Result is not modified after Compare returns it.
type Result struct {
	SourceA string `json:"source_a" yaml:"source_a"`
	SourceB string `json:"source_b" yaml:"source_b"`

	CountA int `json:"count_a" yaml:"count_a"`
	CountB int `json:"count_b" yaml:"count_b"`

	Common      []ontology.TermID `json:"common" yaml:"common"`
	CommonCount int               `json:"common_count" yaml:"common_count"`

	HighConfidenceCommon []ontology.TermID `json:"high_confidence_common" yaml:"high_confidence_common"`
	HighConfidenceCount  int               `json:"high_confidence_count" yaml:"high_confidence_count"`

	Jaccard float64 `json:"jaccard" yaml:"jaccard"`

	OnlyA      []ontology.TermID `json:"only_a" yaml:"only_a"`
	OnlyACount int               `json:"only_a_count" yaml:"only_a_count"`
	OnlyB      []ontology.TermID `json:"only_b" yaml:"only_b"`
	OnlyBCount int               `json:"only_b_count" yaml:"only_b_count"`

	SemanticPairs      []matching.Pair `json:"semantic_pairs" yaml:"semantic_pairs"`
	SemanticPairsCount int             `json:"semantic_pairs_count" yaml:"semantic_pairs_count"`
	SemanticAvgSim     float64         `json:"semantic_avg_sim" yaml:"semantic_avg_sim"`
	SemanticCandidates int             `json:"semantic_candidates" yaml:"semantic_candidates"`

	// ScoresA and ScoresB hold the confidences reported by each side.
	ScoresA map[ontology.TermID]float64 `json:"scores_a,omitempty" yaml:"scores_a,omitempty"`
	ScoresB map[ontology.TermID]float64 `json:"scores_b,omitempty" yaml:"scores_b,omitempty"`

	Threshold       float64           `json:"threshold" yaml:"threshold"`
	Scorer          string            `json:"scorer" yaml:"scorer"`
	OntologyVersion string            `json:"ontology_version,omitempty" yaml:"ontology_version,omitempty"`
	SkippedTerms    []ontology.TermID `json:"skipped_terms,omitempty" yaml:"skipped_terms,omitempty"`
}
