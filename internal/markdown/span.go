package markdown

// Color is the closed palette a span or line may carry. ColorNone means the
// terminal default.
type Color int

const (
	ColorNone Color = iota
	ColorBlue
	ColorCyan
	ColorGreen
	ColorMagenta
	ColorRed
	ColorYellow
	ColorGray
)

// Span is a run of text with one uniform style.
type Span struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Dim       bool
	Color     Color
	Link      string
}

// Line is one logical source line after parsing: a literal prefix (bullet,
// number, quote marker), the content spans, and an optional line-level
// color/dim applied to fenced code and quotes. Never mutated after creation.
type Line struct {
	Prefix string
	Spans  []Span
	Color  Color
	Dim    bool
}

// WrappedLine is one physical terminal row produced by the wrapper.
type WrappedLine struct {
	Spans []Span
	Color Color
	Dim   bool
}

func (s Span) sameStyle(o Span) bool {
	return s.Bold == o.Bold &&
		s.Italic == o.Italic &&
		s.Underline == o.Underline &&
		s.Dim == o.Dim &&
		s.Color == o.Color &&
		s.Link == o.Link
}

// appendSpan appends s to spans, merging it into the previous span when the
// styles are identical. Width math and trimming rely on adjacent spans never
// sharing a style, so every producer of span sequences goes through here.
func appendSpan(spans []Span, s Span) []Span {
	if s.Text == "" {
		return spans
	}
	if n := len(spans); n > 0 && spans[n-1].sameStyle(s) {
		spans[n-1].Text += s.Text
		return spans
	}
	return append(spans, s)
}

// SpanText concatenates the text of all spans.
func SpanText(spans []Span) string {
	total := 0
	for _, s := range spans {
		total += len(s.Text)
	}
	buf := make([]byte, 0, total)
	for _, s := range spans {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

// SpanLen is the character length of the concatenated span text.
func SpanLen(spans []Span) int {
	n := 0
	for _, s := range spans {
		n += len([]rune(s.Text))
	}
	return n
}
