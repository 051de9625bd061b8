package ontology

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

const (
	rdfsSubClassOf    = "<http://www.w3.org/2000/01/rdf-schema#subClassOf>"
	rdfsLabel         = "<http://www.w3.org/2000/01/rdf-schema#label>"
	rdfType           = "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>"
	owlClass          = "<http://www.w3.org/2002/07/owl#Class>"
	owlDeprecated     = "<http://www.w3.org/2002/07/owl#deprecated>"
	owlVersionIRI     = "<http://www.w3.org/2002/07/owl#versionIRI>"
	owlOnProperty     = "<http://www.w3.org/2002/07/owl#onProperty>"
	owlSomeValuesFrom = "<http://www.w3.org/2002/07/owl#someValuesFrom>"
	oboNamespace      = "<http://www.geneontology.org/formats/oboInOwl#hasOBONamespace>"
	oboHasAltID       = "<http://www.geneontology.org/formats/oboInOwl#hasAlternativeId>"
	bfoPartOf         = "<http://purl.obolibrary.org/obo/BFO_0000050>"
)

// restriction is an owl:Restriction blank node: onProperty some target.
type restriction struct {
	property string
	target   TermID
}

// ParseNTriples reads the OWL rendering of GO serialised as N-Triples.
// rdfs:subClassOf between GO classes becomes an is_a edge. part_of is
// expressed through existential restrictions on blank nodes and is followed
// when opts.IncludePartOf is set.
func ParseNTriples(r io.Reader, opts LoadOptions) (*Graph, error) {
	dec := rdf.NewDecoder(r)

	var (
		version      string
		terms        = make(map[TermID]*Term)
		subClass     [][2]TermID
		toBlank      = make(map[TermID][]string)
		restrictions = make(map[string]*restriction)
	)
	term := func(id TermID) *Term {
		t, ok := terms[id]
		if !ok {
			t = &Term{ID: id}
			terms[id] = t
		}
		return t
	}

	for {
		s, err := dec.Unmarshal()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("decode N-Triples: %w", err)
		}

		pred := s.Predicate.Value
		if pred == owlVersionIRI {
			version = strings.Trim(s.Object.Value, "<>")
			continue
		}

		if isBlank(s.Subject.Value) {
			r, ok := restrictions[s.Subject.Value]
			if !ok {
				r = &restriction{}
				restrictions[s.Subject.Value] = r
			}
			switch pred {
			case owlOnProperty:
				r.property = s.Object.Value
			case owlSomeValuesFrom:
				if id, ok := TermIDFromIRI(s.Object.Value); ok {
					r.target = id
				}
			}
			continue
		}

		subject, ok := TermIDFromIRI(s.Subject.Value)
		if !ok {
			continue
		}

		switch pred {
		case rdfType:
			if s.Object.Value == owlClass {
				term(subject)
			}
		case rdfsLabel:
			term(subject).Name = literalText(s.Object)
		case oboNamespace:
			term(subject).Namespace = literalText(s.Object)
		case owlDeprecated:
			term(subject).Obsolete = literalText(s.Object) == "true"
		case oboHasAltID:
			if alt, err := ParseTermID(literalText(s.Object)); err == nil {
				t := term(subject)
				t.AltIDs = append(t.AltIDs, alt)
			}
		case rdfsSubClassOf:
			if isBlank(s.Object.Value) {
				toBlank[subject] = append(toBlank[subject], s.Object.Value)
			} else if parent, ok := TermIDFromIRI(s.Object.Value); ok {
				subClass = append(subClass, [2]TermID{subject, parent})
			}
		}
	}

	g := NewGraph(version)
	for _, t := range terms {
		if t.Obsolete && opts.SkipObsolete {
			continue
		}
		g.AddTerm(*t)
	}
	for _, e := range subClass {
		if g.Has(e[0]) && g.Has(e[1]) {
			g.AddRelation(e[0], e[1])
		}
	}
	if opts.IncludePartOf {
		for child, blanks := range toBlank {
			for _, b := range blanks {
				r := restrictions[b]
				if r == nil || r.property != bfoPartOf || r.target == "" {
					continue
				}
				if g.Has(child) && g.Has(r.target) {
					g.AddRelation(child, r.target)
				}
			}
		}
	}
	return g, nil
}

func isBlank(v string) bool {
	return strings.HasPrefix(v, "_:")
}

// literalText returns the lexical form of a literal term.
func literalText(t rdf.Term) string {
	text, _, kind, err := t.Parts()
	if err != nil || kind != rdf.Literal {
		return strings.Trim(t.Value, `"`)
	}
	return text
}
