// internal/combine/combine_test.go
package combine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseInlineJSON(t *testing.T) {
	spec, err := Parse([]byte(`{"KO": ["ko_id", "ko_ec"], "KO_Product": ["ko_product"]}`))
	require.NoError(t, err)
	want := Spec{Requests: []Request{
		Simple{Name: "KO", Columns: []string{"ko_id", "ko_ec"}},
		Simple{Name: "KO_Product", Columns: []string{"ko_product"}},
	}}
	if diff := cmp.Diff(want, spec); diff != "" {
		t.Fatalf("spec (-want +got):\n%s", diff)
	}
}

func TestParseTaxonomyNested(t *testing.T) {
	in := `{"taxonomy": {"levels": ["phylum", "class"], "KO": ["ko_id", "ko_ec"]}}`
	spec, err := Parse([]byte(in))
	require.NoError(t, err)
	require.Len(t, spec.Requests, 1)
	tax, ok := spec.Requests[0].(Taxonomy)
	require.True(t, ok, "want a Taxonomy request, got %T", spec.Requests[0])
	require.Equal(t, []string{"phylum", "class"}, tax.Levels)
	require.Equal(t, []Simple{{Name: "KO", Columns: []string{"ko_id", "ko_ec"}}}, tax.Subs)
}

func TestParseTaxonomyDefaultsToSpecies(t *testing.T) {
	spec, err := Parse([]byte(`{"Taxonomy": {"KO": ["ko_id"]}}`))
	require.NoError(t, err)
	tax := spec.Requests[0].(Taxonomy)
	require.Equal(t, []string{"species"}, tax.Levels)
	require.Equal(t, "Taxonomy", tax.Name)
}

func TestParseYAMLBlockForm(t *testing.T) {
	in := "KO:\n  - ko_id\ntaxonomy:\n  levels: [phylum]\n"
	spec, err := Parse([]byte(in))
	require.NoError(t, err)
	require.Len(t, spec.Requests, 2)
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{
		`{"KO": ["ko_id"`,             // truncated
		`["ko_id"]`,                   // not a mapping
		`{"KO": "ko_id"}`,             // scalar where list expected
		`{"taxonomy": ["phylum"]}`,    // taxonomy must be a mapping
		`{"taxonomy": {"levels": 3}}`, // levels must be a list
		``,                            // empty document
	} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combos.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"KO": ["ko_id"]}`), 0o644))
	spec, err := Load("@" + path)
	require.NoError(t, err)
	require.Len(t, spec.Requests, 1)

	_, err = Load("@" + filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoadInline(t *testing.T) {
	spec, err := Load(`{"KO": ["ko_id"]}`)
	require.NoError(t, err)
	require.Equal(t, "KO", spec.Requests[0].TableName())
}
