// Package similarity converts ontology path distances into similarity scores.
package similarity

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/algorithms"
)

// Scorer names accepted by ByName.
const (
	NameInverse     = "inverse"
	NameExponential = "exponential"
)

// DefaultDecayRate is the rate used by ByName for the exponential scorer.
const DefaultDecayRate = 0.5

// ErrUnknownScorer is returned by ByName for unrecognised names.
var ErrUnknownScorer = errors.New("unknown similarity scorer")

// DistanceScorer maps a distance to a score in [0, 1]. Implementations must
// return 1 for distance 0, 0 for algorithms.Unreachable, and be non-increasing
// in between.
type DistanceScorer interface {
	Score(d algorithms.Distance) float64
	Name() string
}

// InverseDistance scores a distance d as 1/(1+d).
type InverseDistance struct{}

// Score implements DistanceScorer.
func (InverseDistance) Score(d algorithms.Distance) float64 {
	if !d.Reachable() {
		return 0.0
	}
	return 1.0 / (1.0 + float64(d))
}

// Name implements DistanceScorer.
func (InverseDistance) Name() string { return NameInverse }

// ExponentialDecay scores a distance d as exp(-Rate*d).
type ExponentialDecay struct {
	Rate float64
}

// NewExponentialDecay returns an ExponentialDecay scorer. Rate must be
// positive.
func NewExponentialDecay(rate float64) (ExponentialDecay, error) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return ExponentialDecay{}, fmt.Errorf("decay rate must be positive, got %v", rate)
	}
	return ExponentialDecay{Rate: rate}, nil
}

// Score implements DistanceScorer.
func (e ExponentialDecay) Score(d algorithms.Distance) float64 {
	if !d.Reachable() {
		return 0.0
	}
	if d == 0 {
		return 1.0
	}
	return math.Exp(-e.Rate * float64(d))
}

// Name implements DistanceScorer.
func (ExponentialDecay) Name() string { return NameExponential }

// ByName returns the scorer registered under name. The empty string selects
// InverseDistance.
func ByName(name string) (DistanceScorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameInverse:
		return InverseDistance{}, nil
	case NameExponential:
		return ExponentialDecay{Rate: DefaultDecayRate}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScorer, name)
	}
}

// Names lists the scorers accepted by ByName.
func Names() []string {
	return []string{NameInverse, NameExponential}
}
