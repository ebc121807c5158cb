package diffhunk

import "testing"

const sample = "@@ -10,3 +10,4 @@ func main() {\n ctx\n-old line\n+new line\n+added line\n ctx2"

func TestParse(t *testing.T) {
	rows, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []Row{
		{Kind: RowHeader, Text: "@@ -10,3 +10,4 @@ func main() {"},
		{Kind: RowContext, OldLine: 10, NewLine: 10, Text: "ctx"},
		{Kind: RowDel, OldLine: 11, Text: "old line"},
		{Kind: RowAdd, NewLine: 11, Text: "new line"},
		{Kind: RowAdd, NewLine: 12, Text: "added line"},
		{Kind: RowContext, OldLine: 12, NewLine: 13, Text: "ctx2"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(rows), len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestParseEmpty(t *testing.T) {
	rows, err := Parse("")
	if err != nil || rows != nil {
		t.Fatalf("Parse(\"\") = %+v, %v", rows, err)
	}
}

func TestParseNoNewlineMarker(t *testing.T) {
	rows, err := Parse("@@ -1,1 +1,1 @@\n-a\n+b\n\\ No newline at end of file")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, r := range rows {
		if r.Kind != RowHeader && r.Text != "a" && r.Text != "b" {
			t.Fatalf("marker leaked into rows: %+v", rows)
		}
	}
}
