package markdown

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Placeholder shown for comments whose body is empty or normalizes to empty.
const Placeholder = "(no body)"

// maxEntityPasses bounds entity decoding so pathological chains of
// re-encoded entities cannot loop forever. Double-encoded bodies from the
// API resolve within two passes; four leaves margin.
const maxEntityPasses = 4

var (
	reNumericEntity = regexp.MustCompile(`&#(?:[xX]([0-9a-fA-F]{1,6})|([0-9]{1,7}));`)

	reSummary    = regexp.MustCompile(`(?is)<summary[^>]*>(.*?)</summary>`)
	reBr         = regexp.MustCompile(`(?i)<br\s*/?>`)
	reBlockTag   = regexp.MustCompile(`(?i)</?(?:div|section|article|header|footer)[^>]*>`)
	rePClose     = regexp.MustCompile(`(?i)</p\s*>`)
	rePOpen      = regexp.MustCompile(`(?i)<p(?:\s[^>]*)?>`)
	reDetails    = regexp.MustCompile(`(?i)</?(?:details|summary)[^>]*>`)
	reQuoteOpen  = regexp.MustCompile(`(?i)<blockquote[^>]*>`)
	reQuoteClose = regexp.MustCompile(`(?i)</blockquote\s*>`)
	reLiOpen     = regexp.MustCompile(`(?i)<li[^>]*>`)
	reLiClose    = regexp.MustCompile(`(?i)</li\s*>`)
	reListTag    = regexp.MustCompile(`(?i)</?(?:ul|ol)[^>]*>`)
	reHeadOpen   = regexp.MustCompile(`(?i)<h[1-6][^>]*>`)
	reHeadClose  = regexp.MustCompile(`(?i)</h[1-6]\s*>`)
	reAnchor     = regexp.MustCompile(`(?is)<a\s[^>]*href\s*=\s*["']([^"']*)["'][^>]*>(.*?)</a>`)
	reStrong     = regexp.MustCompile(`(?i)</?(?:strong|b)\s*>`)
	reEm         = regexp.MustCompile(`(?i)</?(?:em|i)\s*>`)
	reCodeTag    = regexp.MustCompile(`(?i)</?code[^>]*>`)
	rePreTag     = regexp.MustCompile(`(?i)</?pre[^>]*>`)
	reAnyTag     = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	reManyBlank  = regexp.MustCompile(`\n{3,}`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

var namedEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

// Normalize flattens a raw comment body (possibly HTML-laced) into the
// constrained markdown dialect the line parser understands. Empty input, or
// input that normalizes to nothing, yields the placeholder.
func Normalize(raw string) string {
	s := decodeEntities(raw)

	s = reSummary.ReplaceAllString(s, "\n**$1**\n")
	s = reBr.ReplaceAllString(s, "\n")
	s = reBlockTag.ReplaceAllString(s, "\n")
	s = rePClose.ReplaceAllString(s, "\n\n")
	s = rePOpen.ReplaceAllString(s, "")
	s = reDetails.ReplaceAllString(s, "\n")
	s = reQuoteOpen.ReplaceAllString(s, "\n> ")
	s = reQuoteClose.ReplaceAllString(s, "\n")
	s = reLiOpen.ReplaceAllString(s, "\n- ")
	s = reLiClose.ReplaceAllString(s, "\n")
	s = reListTag.ReplaceAllString(s, "\n")
	s = reHeadOpen.ReplaceAllString(s, "\n## ")
	s = reHeadClose.ReplaceAllString(s, "\n")

	s = reAnchor.ReplaceAllStringFunc(s, func(m string) string {
		parts := reAnchor.FindStringSubmatch(m)
		url := parts[1]
		label := decodeEntities(reAnyTag.ReplaceAllString(parts[2], ""))
		label = strings.TrimSpace(label)
		if label == "" {
			label = url
		}
		return "[" + label + "](" + url + ")"
	})

	s = reStrong.ReplaceAllString(s, "**")
	s = reEm.ReplaceAllString(s, "*")
	s = reCodeTag.ReplaceAllString(s, "`")
	s = rePreTag.ReplaceAllString(s, "\n```\n")
	s = reAnyTag.ReplaceAllString(s, "")

	s = reManyBlank.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)
	if s == "" {
		return Placeholder
	}
	return s
}

// Preview is the single-line variant used in list rows: the normalized body
// with every whitespace run collapsed to one space.
func Preview(raw string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(Normalize(raw), " "))
}

// decodeEntities resolves HTML entities, repeating until a pass changes
// nothing so double-encoded bodies come out clean. Decoding an already
// decoded string is a no-op.
func decodeEntities(s string) string {
	for i := 0; i < maxEntityPasses; i++ {
		next := reNumericEntity.ReplaceAllStringFunc(s, decodeNumericEntity)
		next = namedEntities.Replace(next)
		if next == s {
			return s
		}
		s = next
	}
	return s
}

func decodeNumericEntity(m string) string {
	parts := reNumericEntity.FindStringSubmatch(m)
	var cp int64
	var err error
	if parts[1] != "" {
		cp, err = strconv.ParseInt(parts[1], 16, 32)
	} else {
		cp, err = strconv.ParseInt(parts[2], 10, 32)
	}
	if err != nil || !utf8.ValidRune(rune(cp)) || cp == 0 {
		// Out-of-range codepoints are dropped rather than surfaced.
		return ""
	}
	return string(rune(cp))
}
