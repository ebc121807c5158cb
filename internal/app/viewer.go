package app

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"prterm/internal/diffhunk"
	"prterm/internal/github"
	"prterm/internal/markdown"
	"prterm/internal/threads"
)

type focusPanel int

const (
	focusList focusPanel = iota
	focusDetail
)

// viewerState is the per-PR screen: the flattened row list and the detail
// pane showing the selected row's body. All of it is discarded when the
// user goes back to the selector.
type viewerState struct {
	// pendingNumber is the PR being opened before its bundle arrives.
	pendingNumber int

	bundle       *github.Bundle
	rows         []threads.Row
	active       int
	listOffset   int
	detailOffset int
	focus        focusPanel
}

// setBundle swaps in a data snapshot and re-clamps everything derived
// from the old one.
func (v *viewerState) setBundle(b *github.Bundle) {
	v.bundle = b
	v.rows = threads.Flatten(b.Discussion, b.Threads)
	v.active = clampIndex(v.active, len(v.rows))
	v.listOffset = clampScroll(v.listOffset, len(v.rows), 1)
}

func (v *viewerState) activeRow() (threads.Row, bool) {
	if len(v.rows) == 0 {
		return threads.Row{}, false
	}
	return v.rows[clampIndex(v.active, len(v.rows))], true
}

// moveList shifts the active row and keeps it visible; selecting a new row
// resets the detail scroll.
func (v *viewerState) moveList(delta, visible int) {
	prev := v.active
	v.active = clampIndex(v.active+delta, len(v.rows))
	v.listOffset = ensureVisible(v.listOffset, v.active, visible)
	if v.active != prev {
		v.detailOffset = 0
	}
}

func (v *viewerState) jumpList(index, visible int) {
	v.active = clampIndex(index, len(v.rows))
	v.listOffset = ensureVisible(v.listOffset, v.active, visible)
	v.detailOffset = 0
}

func (v *viewerState) moveDetail(delta, total, visible int) {
	v.detailOffset = clampScroll(v.detailOffset+delta, total, visible)
}

// reclamp is run after every resize or data change so no offset is left
// pointing past the new bounds.
func (v *viewerState) reclamp(l viewerLayout, detailTotal int) {
	v.active = clampIndex(v.active, len(v.rows))
	v.listOffset = clampScroll(v.listOffset, len(v.rows), l.listInner)
	v.listOffset = ensureVisible(v.listOffset, v.active, l.listInner)
	v.detailOffset = clampScroll(v.detailOffset, detailTotal, l.detailInner)
}

func (v *viewerState) commitBase() string {
	if v.bundle == nil {
		return ""
	}
	return v.bundle.Repo.CommitBaseURL()
}

// detailLines builds the detail pane content for the active row: header
// lines, diff-hunk context for inline rows, then the wrapped body.
func (v *viewerState) detailLines(width int) []markdown.WrappedLine {
	row, ok := v.activeRow()
	if !ok {
		return nil
	}

	logical := []markdown.Line{
		{Spans: []markdown.Span{
			{Text: row.Author, Bold: true},
			{Text: " · " + absTime(row.CreatedAt), Dim: true},
		}},
		{Spans: []markdown.Span{{Text: row.Location, Color: markdown.ColorYellow}}},
	}
	if row.URL != "" {
		logical = append(logical, markdown.Line{Spans: []markdown.Span{{Text: row.URL, Dim: true, Underline: true}}})
	}
	logical = append(logical, markdown.Line{})

	if row.Kind == threads.KindInline && row.DiffHunk != "" {
		logical = append(logical, hunkLines(row.DiffHunk)...)
		logical = append(logical, markdown.Line{})
	}

	out := markdown.WrapAll(logical, 0, width)
	body := markdown.ParseLines(markdown.Normalize(row.Body), v.commitBase())
	return append(out, markdown.WrapAll(body, 0, width)...)
}

// hunkLines renders the anchored diff fragment, one colored line per row.
func hunkLines(raw string) []markdown.Line {
	rows, err := diffhunk.Parse(raw)
	if err != nil {
		return []markdown.Line{{Dim: true, Spans: []markdown.Span{{Text: "diff context unavailable"}}}}
	}

	out := make([]markdown.Line, 0, len(rows))
	for _, r := range rows {
		var color markdown.Color
		sign := " "
		switch r.Kind {
		case diffhunk.RowHeader:
			out = append(out, markdown.Line{Color: markdown.ColorCyan, Dim: true,
				Spans: []markdown.Span{{Text: r.Text}}})
			continue
		case diffhunk.RowAdd:
			color, sign = markdown.ColorGreen, "+"
		case diffhunk.RowDel:
			color, sign = markdown.ColorRed, "-"
		}
		out = append(out, markdown.Line{Color: color,
			Spans: []markdown.Span{{Text: sign + r.Text}}})
	}
	return out
}

// listRowText is the one-line list form of a row: depth indent, author,
// location, preview.
func listRowText(row threads.Row, now time.Time) string {
	indent := strings.Repeat("  ", row.Depth)
	marker := ""
	if row.Depth > 0 {
		marker = "↳ "
	}
	return indent + marker + row.Author + " · " + row.Location + " · " +
		relTime(row.CreatedAt, now) + " — " + row.Preview
}

func (v *viewerState) renderList(l viewerLayout, focused bool, now time.Time) string {
	offset := clampScroll(v.listOffset, len(v.rows), l.listInner)

	var lines []string
	if len(v.rows) == 0 {
		lines = append(lines, styleSubline.Render("no comments"))
	}
	for i := offset; i < len(v.rows) && i < offset+l.listInner; i++ {
		text := ansi.Truncate(listRowText(v.rows[i], now), l.contentWidth-2, "…")
		if i == v.active {
			lines = append(lines, styleActive.Render("> "+text))
		} else {
			lines = append(lines, "  "+text)
		}
	}
	lines = fillSlots(lines, l.listInner)

	return panelStyle(focused).Width(l.contentWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (v *viewerState) renderDetail(l viewerLayout, focused bool) string {
	wrapped := v.detailLines(l.contentWidth)
	start, shown, hidden := paginate(len(wrapped), l.detailInner, v.detailOffset)

	var lines []string
	for _, w := range wrapped[start : start+shown] {
		lines = append(lines, ansi.Truncate(renderWrapped(w), l.contentWidth, "…"))
	}
	if hidden > 0 {
		lines = append(lines, styleSubline.Render(hiddenIndicator(hidden)))
	}
	lines = fillSlots(lines, l.detailInner)

	return panelStyle(focused).Width(l.contentWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}
