package similarity

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/algorithms"
)

const epsilon = 1e-9

func TestInverseDistance(t *testing.T) {
	s := InverseDistance{}

	tests := []struct {
		d    algorithms.Distance
		want float64
	}{
		{0, 1.0},
		{1, 0.5},
		{2, 1.0 / 3.0},
		{9, 0.1},
		{algorithms.Unreachable, 0.0},
	}

	for _, tt := range tests {
		if got := s.Score(tt.d); math.Abs(got-tt.want) > epsilon {
			t.Errorf("Score(%d) = %f, want %f", tt.d, got, tt.want)
		}
	}
	if s.Name() != "inverse" {
		t.Errorf("Name() = %q", s.Name())
	}
}

func TestExponentialDecay(t *testing.T) {
	s, err := NewExponentialDecay(0.5)
	if err != nil {
		t.Fatalf("NewExponentialDecay failed: %v", err)
	}

	if got := s.Score(0); got != 1.0 {
		t.Errorf("Score(0) = %f, want 1", got)
	}
	if got := s.Score(algorithms.Unreachable); got != 0.0 {
		t.Errorf("Score(Unreachable) = %f, want 0", got)
	}
	if got, want := s.Score(2), math.Exp(-1); math.Abs(got-want) > epsilon {
		t.Errorf("Score(2) = %f, want %f", got, want)
	}

	for _, rate := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewExponentialDecay(rate); err == nil {
			t.Errorf("Expected error for rate %v", rate)
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "inverse", " Inverse "} {
		s, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q) failed: %v", name, err)
		}
		if _, ok := s.(InverseDistance); !ok {
			t.Errorf("ByName(%q) = %T, want InverseDistance", name, s)
		}
	}

	s, err := ByName("exponential")
	if err != nil {
		t.Fatalf("ByName failed: %v", err)
	}
	if s.Name() != NameExponential {
		t.Errorf("Name() = %q", s.Name())
	}

	if _, err := ByName("resnik"); !errors.Is(err, ErrUnknownScorer) {
		t.Errorf("Expected ErrUnknownScorer, got %v", err)
	}
}

func TestScorerProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	scorers := []DistanceScorer{InverseDistance{}, ExponentialDecay{Rate: DefaultDecayRate}}

	for _, s := range scorers {
		s := s
		properties.Property(s.Name()+" stays within (0, 1] for reachable distances", prop.ForAll(
			func(d int) bool {
				v := s.Score(algorithms.Distance(d))
				return v > 0 && v <= 1
			},
			gen.IntRange(0, 1000),
		))

		properties.Property(s.Name()+" is non-increasing", prop.ForAll(
			func(d int) bool {
				return s.Score(algorithms.Distance(d+1)) <= s.Score(algorithms.Distance(d))
			},
			gen.IntRange(0, 1000),
		))

		properties.Property(s.Name()+" is 1 only at distance 0", prop.ForAll(
			func(d int) bool {
				return s.Score(algorithms.Distance(d)) < 1
			},
			gen.IntRange(1, 1000),
		))
	}

	properties.TestingRun(t)
}
