// Package diffhunk parses the diff fragment attached to an inline review
// comment into typed rows for the detail pane.
package diffhunk

import (
	"fmt"
	"strings"

	sgdiff "github.com/sourcegraph/go-diff/diff"
)

type RowKind int

const (
	RowHeader RowKind = iota
	RowContext
	RowAdd
	RowDel
)

// Row is one rendered line of hunk context. OldLine/NewLine are zero on the
// side a line does not exist on.
type Row struct {
	Kind    RowKind
	OldLine int
	NewLine int
	Text    string
}

// Parse converts a review comment's diff hunk into rows. The fragment is one
// or more unified hunks, often truncated by the API to the lines around the
// anchor, and may lack a trailing newline.
func Parse(raw string) ([]Row, error) {
	raw = strings.TrimRight(raw, "\n")
	if raw == "" {
		return nil, nil
	}

	hunks, err := sgdiff.ParseHunks([]byte(raw + "\n"))
	if err != nil {
		return nil, fmt.Errorf("parse diff hunk: %w", err)
	}

	rows := make([]Row, 0, 16)
	for _, h := range hunks {
		rows = append(rows, Row{Kind: RowHeader, Text: formatHeader(h)})

		oldLn := int(h.OrigStartLine)
		newLn := int(h.NewStartLine)
		for _, line := range splitBody(h.Body) {
			if line == "" {
				continue
			}
			switch line[0] {
			case ' ':
				rows = append(rows, Row{Kind: RowContext, OldLine: oldLn, NewLine: newLn, Text: line[1:]})
				oldLn++
				newLn++
			case '-':
				rows = append(rows, Row{Kind: RowDel, OldLine: oldLn, Text: line[1:]})
				oldLn++
			case '+':
				rows = append(rows, Row{Kind: RowAdd, NewLine: newLn, Text: line[1:]})
				newLn++
			case '\\':
				// "\ No newline at end of file" marker, not content.
			default:
				return nil, fmt.Errorf("unexpected hunk line prefix %q", line)
			}
		}
	}
	return rows, nil
}

func formatHeader(h *sgdiff.Hunk) string {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OrigStartLine, h.OrigLines, h.NewStartLine, h.NewLines)
	if h.Section != "" {
		header += " " + h.Section
	}
	return header
}

func splitBody(body []byte) []string {
	return strings.Split(strings.TrimRight(string(body), "\n"), "\n")
}
