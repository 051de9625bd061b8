package ontology

import (
	"fmt"
	"regexp"
	"strings"
)

// TermID is a GO identifier such as "GO:0008150".
type TermID string

// Namespaces of the three GO sub-ontologies.
const (
	NamespaceBiologicalProcess = "biological_process"
	NamespaceMolecularFunction = "molecular_function"
	NamespaceCellularComponent = "cellular_component"
)

const oboIRIPrefix = "http://purl.obolibrary.org/obo/"

var termIDPattern = regexp.MustCompile(`^GO:\d{7}$`)

// Term holds the metadata kept for a node of the graph.
type Term struct {
	ID        TermID   `json:"id" yaml:"id"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Namespace string   `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Obsolete  bool     `json:"obsolete,omitempty" yaml:"obsolete,omitempty"`
	AltIDs    []TermID `json:"alt_ids,omitempty" yaml:"alt_ids,omitempty"`
}

func (id TermID) String() string {
	return string(id)
}

// Valid reports whether id has the GO:NNNNNNN shape.
func (id TermID) Valid() bool {
	return termIDPattern.MatchString(string(id))
}

// ValidTermID reports whether s is a well-formed GO identifier.
func ValidTermID(s string) bool {
	return termIDPattern.MatchString(s)
}

// ParseTermID trims s and checks its format.
func ParseTermID(s string) (TermID, error) {
	s = strings.TrimSpace(s)
	if !termIDPattern.MatchString(s) {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidTermID)
	}
	return TermID(s), nil
}

// TermIDFromIRI converts an OBO PURL such as
// <http://purl.obolibrary.org/obo/GO_0003674> into GO:0003674.
// ok is false when iri does not name a GO class.
func TermIDFromIRI(iri string) (TermID, bool) {
	iri = strings.TrimSuffix(strings.TrimPrefix(iri, "<"), ">")
	local := strings.TrimPrefix(iri, oboIRIPrefix)
	if !strings.HasPrefix(local, "GO_") {
		return "", false
	}
	id := TermID("GO:" + strings.TrimPrefix(local, "GO_"))
	if !id.Valid() {
		return "", false
	}
	return id, true
}

// IRI returns the OBO PURL of id without angle brackets.
func (id TermID) IRI() string {
	return oboIRIPrefix + strings.Replace(string(id), ":", "_", 1)
}
