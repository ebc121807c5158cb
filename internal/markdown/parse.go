package markdown

import (
	"regexp"
	"strings"
)

// colorCode is the fixed color for fenced and inline code.
const colorCode = ColorYellow

var (
	reHeadingLine  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	reQuoteLine    = regexp.MustCompile(`^>\s?(.*)$`)
	reBulletLine   = regexp.MustCompile(`^[-*+]\s+(.*)$`)
	reNumberedLine = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)

	reLinkTok   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	reBoldTok   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reCodeTok   = regexp.MustCompile("`([^`]+)`")
	reItalicTok = regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`)

	reHexToken = regexp.MustCompile(`\b[0-9a-f]{7,40}\b`)
)

// ParseLines splits normalized text into logical styled lines. Lines inside a
// triple-backtick fence are emitted verbatim with the code color (syntax
// highlighted when the fence names a language); the marker lines themselves
// are consumed. commitBaseURL, when non-empty, turns probable commit hashes
// into links to {commitBaseURL}/commit/{hash}.
func ParseLines(text, commitBaseURL string) []Line {
	lines := strings.Split(text, "\n")
	out := make([]Line, 0, len(lines))

	inFence := false
	fenceLang := ""
	for _, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "```") {
			if inFence {
				inFence = false
				fenceLang = ""
			} else {
				inFence = true
				fenceLang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			}
			continue
		}
		if inFence {
			out = append(out, Line{Color: colorCode, Spans: fenceSpans(raw, fenceLang)})
			continue
		}

		switch {
		case trimmed == "":
			out = append(out, Line{})

		case reHeadingLine.MatchString(raw):
			m := reHeadingLine.FindStringSubmatch(raw)
			out = append(out, Line{Color: ColorCyan, Spans: parseInline(m[2], commitBaseURL)})

		case reQuoteLine.MatchString(raw):
			m := reQuoteLine.FindStringSubmatch(raw)
			out = append(out, Line{Prefix: "> ", Dim: true, Spans: parseInline(m[1], commitBaseURL)})

		case reBulletLine.MatchString(raw):
			m := reBulletLine.FindStringSubmatch(raw)
			out = append(out, Line{Prefix: "• ", Spans: parseInline(m[1], commitBaseURL)})

		case reNumberedLine.MatchString(raw):
			m := reNumberedLine.FindStringSubmatch(raw)
			out = append(out, Line{Prefix: m[1] + ". ", Spans: parseInline(m[2], commitBaseURL)})

		default:
			out = append(out, Line{Spans: parseInline(raw, commitBaseURL)})
		}
	}
	return out
}

type inlineToken struct {
	start, end int
	spans      []Span
}

// parseInline tokenizes one line's content into styled spans. Token priority
// at equal positions: links, bold, inline code, italics. Plain stretches and
// inline-code content get commit-hash detection.
func parseInline(text, commitBaseURL string) []Span {
	spans := make([]Span, 0, 4)
	pos := 0
	for pos < len(text) {
		tok, ok := nextInlineToken(text[pos:], commitBaseURL)
		if !ok {
			spans = appendPlain(spans, text[pos:], commitBaseURL)
			break
		}
		spans = appendPlain(spans, text[pos:pos+tok.start], commitBaseURL)
		for _, s := range tok.spans {
			spans = appendSpan(spans, s)
		}
		pos += tok.end
	}
	return spans
}

func nextInlineToken(text, commitBaseURL string) (inlineToken, bool) {
	best := inlineToken{start: -1}

	consider := func(loc []int, spans []Span) {
		if loc == nil {
			return
		}
		if best.start == -1 || loc[0] < best.start {
			best = inlineToken{start: loc[0], end: loc[1], spans: spans}
		}
	}

	if loc := reLinkTok.FindStringSubmatchIndex(text); loc != nil {
		label := text[loc[2]:loc[3]]
		url := text[loc[4]:loc[5]]
		consider(loc, []Span{
			{Text: label, Color: ColorBlue, Underline: true, Link: url},
			{Text: " (" + url + ")", Dim: true},
		})
	}
	if loc := reBoldTok.FindStringSubmatchIndex(text); loc != nil {
		consider(loc, []Span{{Text: text[loc[2]:loc[3]], Bold: true}})
	}
	if loc := reCodeTok.FindStringSubmatchIndex(text); loc != nil {
		consider(loc, codeSpans(text[loc[2]:loc[3]], commitBaseURL))
	}
	if loc := reItalicTok.FindStringSubmatchIndex(text); loc != nil {
		inner := ""
		if loc[2] >= 0 {
			inner = text[loc[2]:loc[3]]
		} else {
			inner = text[loc[4]:loc[5]]
		}
		consider(loc, []Span{{Text: inner, Italic: true}})
	}

	if best.start == -1 {
		return inlineToken{}, false
	}
	return best, true
}

// appendPlain emits a plain stretch of text, turning probable commit hashes
// into linked spans when a commit base URL is configured.
func appendPlain(spans []Span, text, commitBaseURL string) []Span {
	for _, piece := range splitCommitHashes(text, commitBaseURL) {
		spans = appendSpan(spans, piece)
	}
	return spans
}

func codeSpans(text, commitBaseURL string) []Span {
	pieces := splitCommitHashes(text, commitBaseURL)
	out := make([]Span, 0, len(pieces))
	for _, p := range pieces {
		if p.Link == "" {
			p.Color = colorCode
		}
		out = append(out, p)
	}
	return out
}

// splitCommitHashes carves sequences of 7-40 hex characters that contain at
// least one a-f letter (so plain decimal runs stay text) into linked spans.
// The heuristic intentionally matches hex-looking non-hashes; the source
// behavior is approximate and kept as-is.
func splitCommitHashes(text, commitBaseURL string) []Span {
	if text == "" {
		return nil
	}
	if commitBaseURL == "" {
		return []Span{{Text: text}}
	}

	out := make([]Span, 0, 2)
	pos := 0
	for _, loc := range reHexToken.FindAllStringIndex(text, -1) {
		hash := text[loc[0]:loc[1]]
		if !strings.ContainsAny(hash, "abcdef") {
			continue
		}
		if loc[0] > pos {
			out = append(out, Span{Text: text[pos:loc[0]]})
		}
		out = append(out, Span{
			Text:      hash,
			Color:     ColorBlue,
			Underline: true,
			Link:      commitBaseURL + "/commit/" + hash,
		})
		pos = loc[1]
	}
	if pos < len(text) {
		out = append(out, Span{Text: text[pos:]})
	}
	return out
}
