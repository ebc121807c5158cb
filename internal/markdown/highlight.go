package markdown

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// fenceSpans renders one verbatim fenced-code line. With a language tag the
// line is lexed and token classes are mapped onto the span palette; without
// one (or when the lexer balks) the whole line stays a single span that
// inherits the line-level code color. Text content is never altered.
func fenceSpans(line, lang string) []Span {
	if lang == "" || line == "" {
		return plainFence(line)
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return plainFence(line)
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, line)
	if err != nil {
		return plainFence(line)
	}

	spans := make([]Span, 0, 4)
	for tok := it(); tok != chroma.EOF; tok = it() {
		spans = appendSpan(spans, Span{Text: tok.Value, Color: tokenColor(tok.Type)})
	}
	spans = trimTrailingNewline(spans)
	if SpanText(spans) != line {
		// A lexer that drops or rewrites text would corrupt wrapping math.
		return plainFence(line)
	}
	return spans
}

// trimTrailingNewline drops the newline some lexers append to their input.
func trimTrailingNewline(spans []Span) []Span {
	if n := len(spans); n > 0 {
		spans[n-1].Text = strings.TrimSuffix(spans[n-1].Text, "\n")
		if spans[n-1].Text == "" {
			return spans[:n-1]
		}
	}
	return spans
}

func plainFence(line string) []Span {
	if line == "" {
		return nil
	}
	return []Span{{Text: line}}
}

func tokenColor(t chroma.TokenType) Color {
	switch {
	case t.InCategory(chroma.Keyword):
		return ColorMagenta
	case t.InSubCategory(chroma.LiteralString):
		return ColorGreen
	case t.InSubCategory(chroma.LiteralNumber):
		return ColorCyan
	case t.InCategory(chroma.Comment):
		return ColorGray
	case t.InCategory(chroma.Literal):
		return ColorCyan
	default:
		return ColorNone
	}
}
