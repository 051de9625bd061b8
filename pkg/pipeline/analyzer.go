// Package pipeline runs the end-to-end analysis of one PDB structure: it
// extracts the sequence, queries both predictors concurrently and compares
// their annotations.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/annotation"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/compare"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/logging"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/pdb"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/store"
)

// SequenceAnnotator predicts GO terms from an amino-acid sequence.
type SequenceAnnotator interface {
	Annotate(ctx context.Context, sequence string) (*annotation.Set, error)
}

// StructurePredictor predicts GO terms from a structure file.
type StructurePredictor interface {
	Annotate(ctx context.Context, pdbPath string) (*annotation.Set, error)
}

// Saver persists finished runs.
type Saver interface {
	Save(ctx context.Context, run *store.Run) error
}

var (
	// ErrNoAnnotators is returned when neither predictor is configured.
	ErrNoAnnotators = errors.New("pipeline needs a sequence annotator and a structure predictor")
)

// Config wires an Analyzer.
type Config struct {
	Engine    *compare.Engine
	Sequence  SequenceAnnotator
	Structure StructurePredictor
	Threshold float64
	Chain     string

	// Fs is used to read PDB files; nil selects the OS filesystem.
	Fs     afero.Fs
	Saver  Saver
	Logger logging.Logger
}

// Analyzer runs analyses. It is safe for concurrent use if its
// collaborators are.
type Analyzer struct {
	cfg    Config
	logger logging.Logger
}

// NewAnalyzer validates cfg and returns an Analyzer.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if cfg.Engine == nil {
		return nil, compare.ErrNilGraph
	}
	if cfg.Sequence == nil || cfg.Structure == nil {
		return nil, ErrNoAnnotators
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	return &Analyzer{
		cfg:    cfg,
		logger: logging.OrNop(cfg.Logger).With(logging.Component("pipeline")),
	}, nil
}

// Analyze processes one structure file. Both predictors run concurrently;
// the first failure cancels the other. When a Saver is configured a failed
// save is logged and the run is still returned.
func (a *Analyzer) Analyze(ctx context.Context, pdbPath string) (*store.Run, error) {
	run := &store.Run{
		ID:        store.NewRunID(),
		PDBPath:   pdbPath,
		Chain:     a.cfg.Chain,
		StartedAt: time.Now().UTC(),
	}
	logger := a.logger.With(logging.RunID(run.ID), logging.Path(pdbPath))

	sequence, err := pdb.ReadSequenceFile(a.cfg.Fs, pdbPath, pdb.Options{Chain: a.cfg.Chain})
	if err != nil {
		return nil, fmt.Errorf("extract sequence: %w", err)
	}
	run.SequenceLength = len(sequence)
	logger.Info("sequence extracted", logging.Int("length", len(sequence)))

	var seqSet, structSet *annotation.Set
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := a.cfg.Sequence.Annotate(gctx, sequence)
		if err != nil {
			return fmt.Errorf("sequence annotation: %w", err)
		}
		seqSet = s
		return nil
	})
	g.Go(func() error {
		s, err := a.cfg.Structure.Annotate(gctx, pdbPath)
		if err != nil {
			return fmt.Errorf("structure prediction: %w", err)
		}
		structSet = s
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error("analysis failed", logging.Error(err))
		return nil, err
	}

	result, err := a.cfg.Engine.Compare(seqSet, structSet, a.cfg.Threshold)
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	run.Result = result
	run.FinishedAt = time.Now().UTC()

	if a.cfg.Saver != nil {
		if err := a.cfg.Saver.Save(ctx, run); err != nil {
			logger.Warn("could not save run", logging.Error(err))
		}
	}

	logger.Info("analysis complete",
		logging.Int("terms_a", result.CountA),
		logging.Int("terms_b", result.CountB),
		logging.Float64("jaccard", result.Jaccard),
		logging.Latency(run.Duration()))
	return run, nil
}
