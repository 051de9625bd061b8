package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/compare"
)

// Run is one recorded comparison, either of a PDB analysis or of two
// annotation files.
type Run struct {
	ID             string          `json:"id" yaml:"id"`
	PDBPath        string          `json:"pdb_path,omitempty" yaml:"pdb_path,omitempty"`
	Chain          string          `json:"chain,omitempty" yaml:"chain,omitempty"`
	SequenceLength int             `json:"sequence_length,omitempty" yaml:"sequence_length,omitempty"`
	StartedAt      time.Time       `json:"started_at" yaml:"started_at"`
	FinishedAt     time.Time       `json:"finished_at" yaml:"finished_at"`
	Result         *compare.Result `json:"result" yaml:"result"`
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary is the listing form of a stored run.
type Summary struct {
	ID              string    `json:"id" yaml:"id"`
	PDBPath         string    `json:"pdb_path,omitempty" yaml:"pdb_path,omitempty"`
	SourceA         string    `json:"source_a" yaml:"source_a"`
	SourceB         string    `json:"source_b" yaml:"source_b"`
	OntologyVersion string    `json:"ontology_version,omitempty" yaml:"ontology_version,omitempty"`
	Threshold       float64   `json:"threshold" yaml:"threshold"`
	Jaccard         float64   `json:"jaccard" yaml:"jaccard"`
	SemanticAvgSim  float64   `json:"semantic_avg_sim" yaml:"semantic_avg_sim"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}
