// Package threads flattens PR discussion comments and inline review threads
// into the single chronological row sequence both panels render from.
package threads

import (
	"fmt"
	"sort"
	"time"

	"prterm/internal/github"
	"prterm/internal/markdown"
)

// Kind tags a row's origin.
type Kind int

const (
	KindDiscussion Kind = iota
	KindInline
)

// Row is one flattened, renderable comment. Rows are derived once per data
// load and never mutated; Key is stable across re-renders of the same data.
type Row struct {
	Key       string
	Kind      Kind
	Depth     int
	Author    string
	CreatedAt time.Time
	Preview   string
	Body      string
	URL       string
	Location  string
	DiffHunk  string
}

// block is one sortable unit of the merged sequence: a single discussion row
// keyed by its own timestamp, or a whole inline thread keyed by the newest
// timestamp anywhere in it.
type block struct {
	key  time.Time
	rows []Row
}

// Flatten merges discussion comments and inline threads into one sequence.
// Discussion rows sort by their own timestamp; each thread stays a
// contiguous pre-order block placed by its maximum timestamp, so a thread
// surfaces when any reply in it is recent. Ties keep input order.
func Flatten(discussion []github.Comment, threads []*github.ThreadNode) []Row {
	blocks := make([]block, 0, len(discussion)+len(threads))
	for _, c := range discussion {
		blocks = append(blocks, block{
			key:  c.CreatedAt,
			rows: []Row{discussionRow(c)},
		})
	}
	for _, root := range threads {
		blocks = append(blocks, threadBlock(root))
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].key.Before(blocks[j].key)
	})

	var out []Row
	for _, b := range blocks {
		out = append(out, b.rows...)
	}
	return out
}

func discussionRow(c github.Comment) Row {
	return Row{
		Key:       fmt.Sprintf("discussion-%d", c.ID),
		Kind:      KindDiscussion,
		Author:    c.Author,
		CreatedAt: c.CreatedAt,
		Preview:   markdown.Preview(c.Body),
		Body:      rowBody(c.Body),
		URL:       c.HTMLURL,
		Location:  "general",
	}
}

// threadBlock walks one thread pre-order with an explicit stack (reply
// chains are practically shallow but unbounded in principle) and records the
// newest timestamp seen as the block key.
func threadBlock(root *github.ThreadNode) block {
	type frame struct {
		node  *github.ThreadNode
		depth int
	}

	var b block
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := f.node.Comment
		b.rows = append(b.rows, inlineRow(c, f.depth))
		if c.CreatedAt.After(b.key) {
			b.key = c.CreatedAt
		}

		for i := len(f.node.Replies) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Replies[i], f.depth + 1})
		}
	}
	return b
}

func inlineRow(c github.InlineComment, depth int) Row {
	return Row{
		Key:       fmt.Sprintf("inline-%d", c.ID),
		Kind:      KindInline,
		Depth:     depth,
		Author:    c.Author,
		CreatedAt: c.CreatedAt,
		Preview:   markdown.Preview(c.Body),
		Body:      rowBody(c.Body),
		URL:       c.HTMLURL,
		Location:  Location(c.Path, c.Line, c.OriginalLine),
		DiffHunk:  c.DiffHunk,
	}
}

// Location formats a file anchor, preferring the current line over the
// original one. No path at all means the comment is effectively general.
func Location(path string, line, originalLine int) string {
	switch {
	case path == "":
		return "general"
	case line > 0:
		return fmt.Sprintf("%s:%d", path, line)
	case originalLine > 0:
		return fmt.Sprintf("%s:%d", path, originalLine)
	default:
		return path
	}
}

func rowBody(body string) string {
	if body == "" {
		return markdown.Placeholder
	}
	return body
}
