// internal/table/table_test.go
package table

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadTabWithCommentsAndNulls(t *testing.T) {
	in := "# featureCounts v2\nGeneid\tChr\tcount\norf1\tc1\t50\norf2\tNA\t22\n"
	tbl, err := Read(strings.NewReader(in), ReadOptions{Comment: '#'})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := Table{
		Columns: []string{"Geneid", "Chr", "count"},
		Rows: [][]string{
			{"orf1", "c1", "50"},
			{"orf2", "", "22"},
		},
	}
	if diff := cmp.Diff(want, tbl); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSniffsComma(t *testing.T) {
	tbl, err := Read(strings.NewReader("a,b\n1,2\n"), ReadOptions{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(tbl.Columns) != 2 || tbl.Rows[0][1] != "2" {
		t.Fatalf("comma sniffing failed: %+v", tbl)
	}
}

func TestReadPadsShortRows(t *testing.T) {
	tbl, err := Read(strings.NewReader("a\tb\tc\nx\ty\n"), ReadOptions{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := tbl.Rows[0]; got[2] != "" {
		t.Fatalf("short row not null-padded: %v", got)
	}
}

func TestReadRejectsWideRows(t *testing.T) {
	if _, err := Read(strings.NewReader("a\tb\n1\t2\t3\n"), ReadOptions{}); err == nil {
		t.Fatal("expected error for row wider than header")
	}
}

func TestReadRejectsEmptyInput(t *testing.T) {
	if _, err := Read(strings.NewReader(""), ReadOptions{}); err == nil {
		t.Fatal("expected error for missing header")
	}
}

func TestWriteRendersNullMarker(t *testing.T) {
	tbl := Table{Columns: []string{"a", "b"}, Rows: [][]string{{"x", ""}}}
	var sb strings.Builder
	if err := Write(&sb, &tbl); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "a\tb\nx\tNA\n"
	if sb.String() != want {
		t.Fatalf("got %q want %q", sb.String(), want)
	}
}

func TestRoundTripPreservesNulls(t *testing.T) {
	tbl := Table{Columns: []string{"a", "b"}, Rows: [][]string{{"", "y"}}}
	var sb strings.Builder
	if err := Write(&sb, &tbl); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := Read(strings.NewReader(sb.String()), ReadOptions{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff(tbl, back); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestSelect(t *testing.T) {
	tbl := Table{Columns: []string{"a", "b", "c"}, Rows: [][]string{{"1", "2", "3"}}}
	sel, err := tbl.Select([]string{"c", "a"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Rows[0][0] != "3" || sel.Rows[0][1] != "1" {
		t.Fatalf("bad selection: %v", sel.Rows[0])
	}
	if _, err := tbl.Select([]string{"nope"}); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestRequireColumnsNamesMissing(t *testing.T) {
	tbl := Table{Columns: []string{"contig", "taxonomy"}}
	err := RequireColumns(&tbl, []string{"contig", "orf", "ko_id"}, "in.tsv")
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"in.tsv", "orf", "ko_id"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not name %q", msg, want)
		}
	}
	if strings.Contains(msg, "taxonomy") {
		t.Errorf("error %q names a column that is present", msg)
	}
	if err := RequireColumns(&tbl, []string{"contig"}, "in.tsv"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNonNullCount(t *testing.T) {
	if got := NonNullCount([]string{"", "x", "", "y"}); got != 2 {
		t.Fatalf("NonNullCount = %d want 2", got)
	}
}
