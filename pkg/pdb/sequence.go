// Package pdb extracts amino acid sequences from PDB coordinate files.
package pdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// ErrNoResidues is returned when no amino acid residue matched.
var ErrNoResidues = errors.New("no amino acid residues found")

// residueCodes maps three-letter residue names to one-letter codes. MSE and
// SEC appear as HETATM records but are part of the chain.
var residueCodes = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLN": 'Q', "GLU": 'E', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"MSE": 'M', "SEC": 'U', "PYL": 'O',
}

// residueKey identifies one residue within a model.
type residueKey struct {
	chain  byte
	iCode  byte
	resSeq string
}

// Options filters the residues included in a sequence.
type Options struct {
	// Chain restricts extraction to one chain identifier. Empty means all
	// chains in file order.
	Chain string
}

// ExtractSequence reads the first model of a PDB file and returns the one
// letter sequence of its polymer residues. Unrecognised three-letter residues
// in ATOM records become 'X'; nucleotides and ligands are skipped.
func ExtractSequence(r io.Reader, opts Options) (string, error) {
	if len(opts.Chain) > 1 {
		return "", fmt.Errorf("chain identifier must be one character, got %q", opts.Chain)
	}

	var (
		seq     strings.Builder
		last    residueKey
		started bool
		lineNo  int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		record := field(line, 0, 6)

		if record == "ENDMDL" || record == "END" {
			break
		}
		if record != "ATOM" && record != "HETATM" {
			continue
		}
		if len(line) < 27 {
			return "", fmt.Errorf("line %d: truncated %s record", lineNo, record)
		}

		resName := field(line, 17, 20)
		code, known := residueCodes[resName]
		switch {
		case record == "HETATM" && !known:
			continue
		case len(resName) < 3:
			// DA, DT, A, U and similar nucleotides
			continue
		case !known:
			code = 'X'
		}

		chain := line[21]
		if opts.Chain != "" && chain != opts.Chain[0] {
			continue
		}
		key := residueKey{chain: chain, resSeq: field(line, 22, 26), iCode: line[26]}
		if started && key == last {
			continue
		}
		started = true
		last = key
		seq.WriteByte(code)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read pdb: %w", err)
	}
	if seq.Len() == 0 {
		if opts.Chain != "" {
			return "", fmt.Errorf("%w in chain %s", ErrNoResidues, opts.Chain)
		}
		return "", ErrNoResidues
	}
	return seq.String(), nil
}

// ReadSequenceFile opens path on fs and extracts its sequence.
func ReadSequenceFile(fs afero.Fs, path string, opts Options) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdb: %w", err)
	}
	defer f.Close()

	seq, err := ExtractSequence(f, opts)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return seq, nil
}

// field returns the trimmed fixed-width column range [from, to) of line,
// clipped to its length.
func field(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	if to > len(line) {
		to = len(line)
	}
	return strings.TrimSpace(line[from:to])
}
