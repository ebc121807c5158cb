package app

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"prterm/internal/github"
	"prterm/internal/markdown"
	"prterm/internal/threads"
)

func TestDetailLinesHeaderAndBody(t *testing.T) {
	v := viewerState{}
	v.setBundle(&github.Bundle{
		Repo: github.RepoRef{Owner: "o", Name: "r"},
		Discussion: []github.Comment{{
			ID: 1, Author: "alice", Body: "hello **world**",
			CreatedAt: time.Unix(1000, 0), HTMLURL: "http://u/1",
		}},
	})

	lines := v.detailLines(60)
	if len(lines) < 4 {
		t.Fatalf("got %d lines", len(lines))
	}
	if got := markdown.SpanText(lines[0].Spans); !strings.HasPrefix(got, "alice · ") {
		t.Fatalf("header line = %q", got)
	}
	if got := markdown.SpanText(lines[1].Spans); got != "general" {
		t.Fatalf("location line = %q", got)
	}
	if got := markdown.SpanText(lines[2].Spans); got != "http://u/1" {
		t.Fatalf("url line = %q", got)
	}

	var body string
	for _, l := range lines[3:] {
		body += markdown.SpanText(l.Spans)
	}
	if !strings.Contains(body, "hello world") {
		t.Fatalf("body lines = %q", body)
	}
}

func TestDetailLinesInlineHunk(t *testing.T) {
	v := viewerState{}
	v.setBundle(&github.Bundle{
		Repo: github.RepoRef{Owner: "o", Name: "r"},
		Threads: []*github.ThreadNode{{
			Comment: github.InlineComment{
				Comment:  github.Comment{ID: 2, Author: "bob", Body: "rename"},
				Path:     "a/b.go",
				Line:     3,
				DiffHunk: "@@ -1,1 +1,1 @@\n-old\n+new",
			},
		}},
	})

	var sawDel, sawAdd bool
	for _, l := range v.detailLines(60) {
		switch markdown.SpanText(l.Spans) {
		case "-old":
			sawDel = l.Color == markdown.ColorRed
		case "+new":
			sawAdd = l.Color == markdown.ColorGreen
		}
	}
	if !sawDel || !sawAdd {
		t.Fatalf("hunk rows missing or uncolored (del %v, add %v)", sawDel, sawAdd)
	}
}

func TestRenderDetailIndicator(t *testing.T) {
	v := viewerState{focus: focusDetail}
	body := strings.TrimSuffix(strings.Repeat("a paragraph line\n\n", 40), "\n")
	v.setBundle(&github.Bundle{
		Repo:       github.RepoRef{Owner: "o", Name: "r"},
		Discussion: []github.Comment{{ID: 1, Author: "alice", Body: body}},
	})

	l := computeViewerLayout(100, 40)
	out := ansi.Strip(v.renderDetail(l, true))
	if !strings.Contains(out, "more lines)") {
		t.Fatalf("no hidden-line indicator in:\n%s", out)
	}
}

func TestListRowText(t *testing.T) {
	now := time.Unix(10_000, 0)
	row := threads.Row{
		Depth: 1, Author: "bob", Location: "a/b.go:3",
		CreatedAt: now.Add(-2 * time.Hour), Preview: "rename this",
	}
	got := listRowText(row, now)
	if !strings.HasPrefix(got, "  ↳ bob · a/b.go:3 · 2h ago") {
		t.Fatalf("row text = %q", got)
	}
	if !strings.HasSuffix(got, "rename this") {
		t.Fatalf("row text = %q", got)
	}
}

func TestSetBundleReclamps(t *testing.T) {
	v := viewerState{active: 10, listOffset: 8}
	v.setBundle(&github.Bundle{
		Discussion: []github.Comment{{ID: 1, Author: "a", Body: "x"}},
	})
	if v.active != 0 || v.listOffset != 0 {
		t.Fatalf("stale cursor survived snapshot swap: %+v", v)
	}
}
