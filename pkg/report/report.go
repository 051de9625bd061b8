// Package report serializes and renders comparison results.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/compare"
)

// Output formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned by Write for unsupported formats.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists the accepted format names.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Write emits result in the named format. An empty format means text.
func Write(w io.Writer, result *compare.Result, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		return Render(w, result)
	case FormatJSON:
		return WriteJSON(w, result)
	case FormatYAML, "yml":
		return WriteYAML(w, result)
	default:
		return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}
