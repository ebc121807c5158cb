package markdown

import "strings"

// minWrapWidth keeps narrow terminals usable; widths below it are clamped up
// before packing.
const minWrapWidth = 24

// Wrap breaks one logical line into physical rows of at most width columns.
// The first row carries indent spaces plus the line prefix; continuation rows
// carry spaces aligned under the content, never consuming the full width.
// Always returns at least one row.
func Wrap(line Line, indent, width int) []WrappedLine {
	if width < minWrapWidth {
		width = minWrapWidth
	}

	firstPrefix := strings.Repeat(" ", indent) + line.Prefix

	contCols := indent + len([]rune(line.Prefix))
	if n := indent + leadingSpaces(line.Prefix+SpanText(line.Spans)); n > contCols {
		contCols = n
	}
	if contCols > width-1 {
		contCols = width - 1
	}
	contPrefix := strings.Repeat(" ", contCols)

	var out []WrappedLine
	cur := prefixSpans(firstPrefix)
	col := len([]rune(firstPrefix))
	hasContent := false

	flush := func() {
		out = append(out, WrappedLine{Spans: cur, Color: line.Color, Dim: line.Dim})
		cur = prefixSpans(contPrefix)
		col = contCols
		hasContent = false
	}

	for _, sp := range line.Spans {
		text := []rune(sp.Text)
		for len(text) > 0 {
			room := width - col
			if room <= 0 {
				flush()
				continue
			}
			if len(text) <= room {
				cur = appendSpan(cur, styledChunk(sp, string(text)))
				col += len(text)
				hasContent = true
				text = nil
				continue
			}

			// Break at the last space in the fitting region when there is
			// one; the space itself is consumed by the break.
			brk := -1
			for i := room - 1; i > 0; i-- {
				if text[i] == ' ' {
					brk = i
					break
				}
			}
			var chunk string
			if brk > 0 {
				chunk = string(text[:brk])
				text = text[brk+1:]
			} else {
				chunk = string(text[:room])
				text = text[room:]
			}
			cur = appendSpan(cur, styledChunk(sp, chunk))
			hasContent = true
			flush()
		}
	}

	if len(out) == 0 || hasContent {
		out = append(out, WrappedLine{Spans: cur, Color: line.Color, Dim: line.Dim})
	}
	return out
}

// WrapAll wraps every logical line in order.
func WrapAll(lines []Line, indent, width int) []WrappedLine {
	out := make([]WrappedLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, Wrap(l, indent, width)...)
	}
	return out
}

func prefixSpans(prefix string) []Span {
	if prefix == "" {
		return nil
	}
	return []Span{{Text: prefix}}
}

func styledChunk(sp Span, text string) Span {
	sp.Text = text
	return sp
}

func leadingSpaces(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' {
			break
		}
		n++
	}
	return n
}
