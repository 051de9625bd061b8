package ontology

import (
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/logging"
)

// Loader reads ontology files through an afero filesystem so tests can use
// an in-memory tree.
type Loader struct {
	fs     afero.Fs
	logger logging.Logger
}

// NewLoader creates a loader on fs. A nil logger discards output.
func NewLoader(fs afero.Fs, logger logging.Logger) *Loader {
	return &Loader{
		fs:     fs,
		logger: logging.OrNop(logger).With(logging.Component("ontology")),
	}
}

// NewOsLoader creates a loader on the host filesystem.
func NewOsLoader(logger logging.Logger) *Loader {
	return NewLoader(afero.NewOsFs(), logger)
}

// Load parses path according to its extension: .obo, .nt, optionally
// followed by .gz.
func (l *Loader) Load(path string, opts LoadOptions) (*Graph, error) {
	timer := logging.StartTimer(l.logger, "ontology loaded", logging.Path(path))

	f, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ontology: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip ontology: %w", err)
		}
		defer gz.Close()
		r = gz
		name = strings.TrimSuffix(name, ".gz")
	}

	var g *Graph
	switch filepath.Ext(name) {
	case ".obo":
		g, err = ParseOBO(r, opts)
	case ".nt":
		g, err = ParseNTriples(r, opts)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	stats := g.Stats()
	timer.End(
		logging.String("version", stats.Version),
		logging.Int("terms", stats.Terms),
		logging.Int("relations", stats.Relations),
		logging.Int("obsolete", stats.Obsolete),
	)
	return g, nil
}
