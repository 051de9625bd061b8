package annotation

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/validation"
)

// ErrUnsupportedFormat is returned for files whose extension is not known.
var ErrUnsupportedFormat = errors.New("unsupported annotation file format")

// Document is the on-disk JSON and YAML form of a Set.
type Document struct {
	Source string  `json:"source" yaml:"source"`
	Terms  []Entry `json:"terms" yaml:"terms"`
}

// Document returns the serializable form of s.
func (s *Set) Document() Document {
	return Document{Source: s.source, Terms: s.Entries()}
}

// MarshalJSON encodes the set as a Document.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Document())
}

// MarshalYAML encodes the set as a Document.
func (s *Set) MarshalYAML() (any, error) {
	return s.Document(), nil
}

// Decode reads a set in the given format: "json", "yaml" or "text". The
// text format holds one term per line with an optional confidence separated
// by whitespace, a comma or a tab; '#' starts a comment.
func Decode(r io.Reader, format, source string) (*Set, error) {
	switch format {
	case "json":
		var doc Document
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return fromDocument(doc, source)
	case "yaml":
		var doc Document
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return fromDocument(doc, source)
	case "text":
		entries, err := parseText(r)
		if err != nil {
			return nil, err
		}
		return NewSet(source, entries)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func fromDocument(doc Document, source string) (*Set, error) {
	if doc.Source != "" {
		source = doc.Source
	}
	return NewSet(source, doc.Terms)
}

func parseText(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == '\t' || r == ' '
		})
		if len(fields) == 0 {
			continue
		}
		if err := validation.Var(fmt.Sprintf("line %d", lineNo), fields[0], "goterm"); err != nil {
			return nil, err
		}
		switch len(fields) {
		case 1:
			entries = append(entries, Bare(ontology.TermID(fields[0])))
		default:
			c, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid confidence %q", lineNo, fields[1])
			}
			entries = append(entries, Score(ontology.TermID(fields[0]), c))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read annotations: %w", err)
	}
	return entries, nil
}

// FormatForPath picks the Decode format from a file extension.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	case ".txt", ".tsv", ".csv", ".list":
		return "text", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ReadFile loads a set from fs. The source name defaults to the file name
// without extension when the document does not carry one.
func ReadFile(fs afero.Fs, path string) (*Set, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotations: %w", err)
	}
	defer f.Close()

	base := filepath.Base(path)
	set, err := Decode(f, format, strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// WriteFile stores s on fs as JSON or YAML, chosen by extension.
func WriteFile(fs afero.Fs, path string, s *Set) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(s.Document(), "", "  ")
	case "yaml":
		data, err = yaml.Marshal(s.Document())
	default:
		return fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("encode annotations: %w", err)
	}
	return afero.WriteFile(fs, path, data, 0o644)
}
