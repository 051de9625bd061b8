package annotation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/validation"
)

func TestNewSet(t *testing.T) {
	s, err := NewSet("deepfri", []Entry{
		Score("GO:0005515", 0.9),
		Bare("GO:0008150"),
		Score("GO:0003674", 0),
	})
	require.NoError(t, err)

	assert.Equal(t, "deepfri", s.Source())
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has("GO:0008150"))
	assert.False(t, s.Has("GO:0009987"))
	assert.True(t, s.HasConfidence())
	assert.Equal(t, []ontology.TermID{"GO:0003674", "GO:0005515", "GO:0008150"}, s.Terms())

	c, ok := s.Confidence("GO:0005515")
	assert.True(t, ok)
	assert.Equal(t, 0.9, c)

	// zero confidence is reported, absence is not
	c, ok = s.Confidence("GO:0003674")
	assert.True(t, ok)
	assert.Zero(t, c)
	_, ok = s.Confidence("GO:0008150")
	assert.False(t, ok)

	assert.Equal(t, map[ontology.TermID]float64{"GO:0005515": 0.9, "GO:0003674": 0}, s.Confidences())
}

func TestNewSet_Duplicates(t *testing.T) {
	s, err := NewSet("deepfri", []Entry{
		Score("GO:0005515", 0.4),
		Bare("GO:0005515"),
		Score("GO:0005515", 0.7),
		Score("GO:0005515", 0.6),
		Bare("GO:0008150"),
		Bare("GO:0008150"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	c, ok := s.Confidence("GO:0005515")
	assert.True(t, ok)
	assert.Equal(t, 0.7, c)
	_, ok = s.Confidence("GO:0008150")
	assert.False(t, ok)
}

func TestNewSet_Validation(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
	}{
		{"bad id", Bare("GO:123")},
		{"empty id", Bare("")},
		{"confidence above one", Score("GO:0008150", 1.01)},
		{"negative confidence", Score("GO:0008150", -0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSet("x", []Entry{tt.entry})
			assert.Error(t, err)
		})
	}
}

func TestNewSet_TooMany(t *testing.T) {
	old := validation.MaxTerms
	validation.MaxTerms = 2
	defer func() { validation.MaxTerms = old }()

	_, err := FromTerms("x", "GO:0000001", "GO:0000002", "GO:0000003")
	assert.True(t, errors.Is(err, ErrTooManyTerms))
}

func TestSet_Immutable(t *testing.T) {
	conf := 0.5
	s, err := NewSet("x", []Entry{{Term: "GO:0008150", Confidence: &conf}})
	require.NoError(t, err)

	conf = 0.9
	entries := s.Entries()
	*entries[0].Confidence = 0.1

	c, _ := s.Confidence("GO:0008150")
	assert.Equal(t, 0.5, c)
}

func TestDecode_Text(t *testing.T) {
	input := `# interpro
GO:0005515
GO:0008150	0.85
GO:0003674, 0.4   # trailing comment

`
	s, err := Decode(strings.NewReader(input), "text", "interpro")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	c, ok := s.Confidence("GO:0008150")
	assert.True(t, ok)
	assert.Equal(t, 0.85, c)

	_, err = Decode(strings.NewReader("GO:0008150 high\n"), "text", "x")
	assert.ErrorContains(t, err, "line 1")

	_, err = Decode(strings.NewReader("GO:0008150\n\nGO:81 0.5\n"), "text", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), `"GO:81" is not a GO term identifier`)
}

func TestDecode_JSONAndYAML(t *testing.T) {
	orig, err := NewSet("deepfri", []Entry{Score("GO:0005515", 0.9), Bare("GO:0008150")})
	require.NoError(t, err)

	data, err := json.Marshal(orig)
	require.NoError(t, err)
	fromJSON, err := Decode(bytes.NewReader(data), "json", "fallback")
	require.NoError(t, err)
	assert.Equal(t, orig.Entries(), fromJSON.Entries())
	assert.Equal(t, "deepfri", fromJSON.Source())

	ydata, err := yaml.Marshal(orig)
	require.NoError(t, err)
	fromYAML, err := Decode(bytes.NewReader(ydata), "yaml", "fallback")
	require.NoError(t, err)
	assert.Equal(t, orig.Entries(), fromYAML.Entries())

	_, err = Decode(strings.NewReader(""), "xml", "x")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestReadWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	require.NoError(t, afero.WriteFile(fs, "/data/interpro.txt", []byte("GO:0005515\nGO:0016020\n"), 0o644))
	s, err := ReadFile(fs, "/data/interpro.txt")
	require.NoError(t, err)
	assert.Equal(t, "interpro", s.Source())
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.HasConfidence())

	require.NoError(t, WriteFile(fs, "/data/copy.yaml", s))
	back, err := ReadFile(fs, "/data/copy.yaml")
	require.NoError(t, err)
	assert.Equal(t, s.Terms(), back.Terms())
	assert.Equal(t, "interpro", back.Source())

	_, err = ReadFile(fs, "/data/missing.json")
	assert.Error(t, err)

	_, err = ReadFile(fs, "/data/terms.xlsx")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	assert.True(t, errors.Is(WriteFile(fs, "/data/out.txt", s), ErrUnsupportedFormat))
}
