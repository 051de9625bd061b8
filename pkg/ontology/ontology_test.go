package ontology

import (
	"bytes"
	"compress/gzip"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadMiniOBO(t *testing.T, opts LoadOptions) *Graph {
	t.Helper()
	f, err := os.Open("testdata/mini.obo")
	require.NoError(t, err)
	defer f.Close()

	g, err := ParseOBO(f, opts)
	require.NoError(t, err)
	return g
}

func TestParseTermID(t *testing.T) {
	id, err := ParseTermID(" GO:0008150 ")
	require.NoError(t, err)
	assert.Equal(t, TermID("GO:0008150"), id)

	for _, bad := range []string{"", "GO:123", "go:0008150", "GO:00081500", "GO_0008150"} {
		_, err := ParseTermID(bad)
		assert.ErrorIs(t, err, ErrInvalidTermID, bad)
	}
}

func TestTermIDFromIRI(t *testing.T) {
	tests := []struct {
		iri  string
		want TermID
		ok   bool
	}{
		{"<http://purl.obolibrary.org/obo/GO_0003674>", "GO:0003674", true},
		{"http://purl.obolibrary.org/obo/GO_0005575", "GO:0005575", true},
		{"<http://purl.obolibrary.org/obo/BFO_0000050>", "", false},
		{"<http://purl.obolibrary.org/obo/GO_12>", "", false},
	}
	for _, tt := range tests {
		got, ok := TermIDFromIRI(tt.iri)
		assert.Equal(t, tt.ok, ok, tt.iri)
		assert.Equal(t, tt.want, got, tt.iri)
	}
	assert.Equal(t, "http://purl.obolibrary.org/obo/GO_0003674", TermID("GO:0003674").IRI())
}

func TestGraph_AddRelationIsSymmetric(t *testing.T) {
	g := NewGraph("test")
	assert.True(t, g.AddRelation("GO:0000002", "GO:0000001"))
	assert.False(t, g.AddRelation("GO:0000001", "GO:0000002"), "reverse duplicate must be ignored")
	assert.False(t, g.AddRelation("GO:0000001", "GO:0000001"), "self loop must be ignored")

	assert.Equal(t, []TermID{"GO:0000001"}, g.Neighbors("GO:0000002"))
	assert.Equal(t, []TermID{"GO:0000002"}, g.Neighbors("GO:0000001"))
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 2, g.NodeCount())
}

func TestGraph_AddTermMergesMetadata(t *testing.T) {
	g := NewGraph("")
	g.AddRelation("GO:0000001", "GO:0000002")
	g.AddTerm(Term{ID: "GO:0000001", Name: "first", AltIDs: []TermID{"GO:0000009"}})

	term, ok := g.Term("GO:0000001")
	require.True(t, ok)
	assert.Equal(t, "first", term.Name)
	assert.Equal(t, 1, g.Degree("GO:0000001"))

	resolved, ok := g.Resolve("GO:0000009")
	assert.True(t, ok)
	assert.Equal(t, TermID("GO:0000001"), resolved)
	assert.False(t, g.Has("GO:0000009"), "alt ids are not nodes")
}

func TestParseOBO(t *testing.T) {
	g := loadMiniOBO(t, DefaultLoadOptions())

	assert.Equal(t, "releases/2024-01-17", g.Version())
	assert.Equal(t, 13, g.NodeCount())
	assert.Equal(t, 11, g.EdgeCount())

	term, ok := g.Term("GO:0005515")
	require.True(t, ok)
	assert.Equal(t, "protein binding", term.Name)
	assert.Equal(t, NamespaceMolecularFunction, term.Namespace)

	// is_a with trailing qualifiers still links the parent
	assert.Contains(t, g.Neighbors("GO:0050794"), TermID("GO:0009987"))
	// part_of relationship
	assert.Contains(t, g.Neighbors("GO:0005829"), TermID("GO:0005737"))
	// regulates is not followed
	assert.NotContains(t, g.Neighbors("GO:0050789"), TermID("GO:0008150"))

	obsolete, ok := g.Term("GO:0000005")
	require.True(t, ok)
	assert.True(t, obsolete.Obsolete)
	assert.Zero(t, g.Degree("GO:0000005"))

	resolved, ok := g.Resolve("GO:0050791")
	assert.True(t, ok)
	assert.Equal(t, TermID("GO:0050789"), resolved)

	stats := g.Stats()
	assert.Equal(t, 1, stats.Obsolete)
	assert.Equal(t, 5, stats.Namespaces[NamespaceBiologicalProcess])
}

func TestParseOBO_Options(t *testing.T) {
	g := loadMiniOBO(t, LoadOptions{IncludePartOf: false, SkipObsolete: true})
	assert.Equal(t, 12, g.NodeCount())
	assert.Equal(t, 10, g.EdgeCount())
	assert.NotContains(t, g.Neighbors("GO:0005829"), TermID("GO:0005737"))
	assert.False(t, g.Has("GO:0000005"))
}

func TestParseOBO_Malformed(t *testing.T) {
	_, err := ParseOBO(strings.NewReader("[Term]\nname: nameless\n"), DefaultLoadOptions())
	assert.ErrorIs(t, err, ErrMalformedOBO)

	_, err = ParseOBO(strings.NewReader("[Term\nid: GO:0000001\n"), DefaultLoadOptions())
	assert.ErrorIs(t, err, ErrMalformedOBO)
}

func TestParseOBO_DanglingReferencesIgnored(t *testing.T) {
	doc := "[Term]\nid: GO:0000001\nis_a: GO:0000002 ! not defined\n"
	g, err := ParseOBO(strings.NewReader(doc), DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, g.NodeCount())
	assert.Zero(t, g.EdgeCount())
}

const miniNTriples = `<http://purl.obolibrary.org/obo/go.owl> <http://www.w3.org/2002/07/owl#versionIRI> <http://purl.obolibrary.org/obo/go/releases/2024-01-17/go.owl> .
<http://purl.obolibrary.org/obo/GO_0003674> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Class> .
<http://purl.obolibrary.org/obo/GO_0003674> <http://www.w3.org/2000/01/rdf-schema#label> "molecular_function"^^<http://www.w3.org/2001/XMLSchema#string> .
<http://purl.obolibrary.org/obo/GO_0005488> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Class> .
<http://purl.obolibrary.org/obo/GO_0005488> <http://www.w3.org/2000/01/rdf-schema#subClassOf> <http://purl.obolibrary.org/obo/GO_0003674> .
<http://purl.obolibrary.org/obo/GO_0005488> <http://www.geneontology.org/formats/oboInOwl#hasOBONamespace> "molecular_function"^^<http://www.w3.org/2001/XMLSchema#string> .
<http://purl.obolibrary.org/obo/GO_0005737> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Class> .
<http://purl.obolibrary.org/obo/GO_0005829> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Class> .
<http://purl.obolibrary.org/obo/GO_0005829> <http://www.w3.org/2000/01/rdf-schema#subClassOf> _:b0 .
_:b0 <http://www.w3.org/2002/07/owl#onProperty> <http://purl.obolibrary.org/obo/BFO_0000050> .
_:b0 <http://www.w3.org/2002/07/owl#someValuesFrom> <http://purl.obolibrary.org/obo/GO_0005737> .
<http://purl.obolibrary.org/obo/GO_0000005> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Class> .
<http://purl.obolibrary.org/obo/GO_0000005> <http://www.w3.org/2002/07/owl#deprecated> "true"^^<http://www.w3.org/2001/XMLSchema#boolean> .
`

func TestParseNTriples(t *testing.T) {
	g, err := ParseNTriples(strings.NewReader(miniNTriples), DefaultLoadOptions())
	require.NoError(t, err)

	assert.Equal(t, "http://purl.obolibrary.org/obo/go/releases/2024-01-17/go.owl", g.Version())
	assert.Equal(t, 5, g.NodeCount())
	assert.Equal(t, []TermID{"GO:0003674"}, g.Neighbors("GO:0005488"))
	assert.Equal(t, []TermID{"GO:0005737"}, g.Neighbors("GO:0005829"))

	mf, ok := g.Term("GO:0003674")
	require.True(t, ok)
	assert.Equal(t, "molecular_function", mf.Name)

	binding, _ := g.Term("GO:0005488")
	assert.Equal(t, NamespaceMolecularFunction, binding.Namespace)

	obsolete, _ := g.Term("GO:0000005")
	assert.True(t, obsolete.Obsolete)

	noPartOf, err := ParseNTriples(strings.NewReader(miniNTriples), LoadOptions{})
	require.NoError(t, err)
	assert.Empty(t, noPartOf.Neighbors("GO:0005829"))
}

func TestLoader_Load(t *testing.T) {
	data, err := os.ReadFile("testdata/mini.obo")
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/go/go-basic.obo", data, 0o644))

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err = zw.Write([]byte(miniNTriples))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, afero.WriteFile(fs, "/go/go.nt.gz", gz.Bytes(), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/go/go.json", []byte("{}"), 0o644))

	loader := NewLoader(fs, nil)

	g, err := loader.Load("/go/go-basic.obo", DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 13, g.NodeCount())

	g, err = loader.Load("/go/go.nt.gz", DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 5, g.NodeCount())

	_, err = loader.Load("/go/go.json", DefaultLoadOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = loader.Load("/go/missing.obo", DefaultLoadOptions())
	assert.Error(t, err)
}

func TestUnknownTermError(t *testing.T) {
	err := UnknownTerm("distance", "GO:9999999")
	assert.True(t, IsUnknownTerm(err))
	assert.EqualError(t, err, "distance GO:9999999: term not in ontology")

	var ute *UnknownTermError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, TermID("GO:9999999"), ute.Term)
}
