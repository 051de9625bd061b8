package ontology

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// LoadOptions controls which relations become edges.
type LoadOptions struct {
	// IncludePartOf adds part_of relationships next to is_a.
	IncludePartOf bool
	// SkipObsolete drops obsolete terms entirely instead of keeping them as
	// isolated nodes.
	SkipObsolete bool
}

// DefaultLoadOptions uses is_a and part_of and keeps obsolete terms.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{IncludePartOf: true}
}

type oboStanza struct {
	kind      string
	line      int
	id        TermID
	name      string
	namespace string
	obsolete  bool
	altIDs    []TermID
	isA       []TermID
	partOf    []TermID
}

// ParseOBO reads an OBO 1.2/1.4 document such as go-basic.obo.
func ParseOBO(r io.Reader, opts LoadOptions) (*Graph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		header  = make(map[string]string)
		stanzas []*oboStanza
		current *oboStanza
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return nil, fmt.Errorf("line %d: bad stanza header %q: %w", lineNo, line, ErrMalformedOBO)
			}
			current = &oboStanza{kind: line, line: lineNo}
			stanzas = append(stanzas, current)
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripOBOComment(strings.TrimSpace(value))

		if current == nil {
			header[key] = value
			continue
		}
		if current.kind != "[Term]" {
			continue
		}

		switch key {
		case "id":
			current.id = TermID(firstToken(value))
		case "name":
			current.name = value
		case "namespace":
			current.namespace = value
		case "alt_id":
			current.altIDs = append(current.altIDs, TermID(firstToken(value)))
		case "is_a":
			current.isA = append(current.isA, TermID(firstToken(value)))
		case "relationship":
			fields := strings.Fields(value)
			if len(fields) >= 2 && fields[0] == "part_of" {
				current.partOf = append(current.partOf, TermID(fields[1]))
			}
		case "is_obsolete":
			current.obsolete = value == "true"
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read OBO: %w", err)
	}

	version := header["data-version"]
	if version == "" {
		version = header["format-version"]
	}
	g := NewGraph(version)

	terms := make([]*oboStanza, 0, len(stanzas))
	for _, s := range stanzas {
		if s.kind != "[Term]" {
			continue
		}
		if s.id == "" {
			return nil, fmt.Errorf("line %d: term stanza without id: %w", s.line, ErrMalformedOBO)
		}
		if s.obsolete && opts.SkipObsolete {
			continue
		}
		g.AddTerm(Term{
			ID:        s.id,
			Name:      s.name,
			Namespace: s.namespace,
			Obsolete:  s.obsolete,
			AltIDs:    s.altIDs,
		})
		terms = append(terms, s)
	}

	// Relations are added once every term is known so that references to
	// terms defined further down the file, or to other ontologies, can be
	// told apart.
	for _, s := range terms {
		for _, parent := range s.isA {
			if g.Has(parent) {
				g.AddRelation(s.id, parent)
			}
		}
		if !opts.IncludePartOf {
			continue
		}
		for _, whole := range s.partOf {
			if g.Has(whole) {
				g.AddRelation(s.id, whole)
			}
		}
	}

	return g, nil
}

// stripOBOComment drops a trailing "! comment".
func stripOBOComment(v string) string {
	if idx := strings.Index(v, " ! "); idx >= 0 {
		return strings.TrimSpace(v[:idx])
	}
	if strings.HasPrefix(v, "!") {
		return ""
	}
	return v
}

func firstToken(v string) string {
	if fields := strings.Fields(v); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
