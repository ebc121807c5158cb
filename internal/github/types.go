package github

import (
	"fmt"
	"time"
)

// RepoRef identifies the repository the viewer is pointed at.
type RepoRef struct {
	Owner string
	Name  string
}

func (r RepoRef) String() string { return r.Owner + "/" + r.Name }

// CommitBaseURL is the base for linkifying commit hashes found in bodies.
func (r RepoRef) CommitBaseURL() string {
	if r.Owner == "" || r.Name == "" {
		return ""
	}
	return fmt.Sprintf("https://github.com/%s/%s", r.Owner, r.Name)
}

// PullRequest is one open pull request as shown on the selector screen.
type PullRequest struct {
	Number    int
	Title     string
	HeadRef   string
	BaseRef   string
	UpdatedAt time.Time
}

// Comment is a top-level discussion comment. Author is "ghost" when the API
// reports no user. A zero CreatedAt means the timestamp was missing.
type Comment struct {
	ID        int64
	Author    string
	Body      string
	CreatedAt time.Time
	HTMLURL   string
}

// InlineComment is a review comment anchored to a file. Line and
// OriginalLine are zero when the API omits them.
type InlineComment struct {
	Comment
	Path         string
	Line         int
	OriginalLine int
	DiffHunk     string
}

// ThreadNode is one node of an inline review thread. Replies keep the order
// the API returned them in.
type ThreadNode struct {
	Comment InlineComment
	Replies []*ThreadNode
}

// Bundle is everything the viewer screen needs for one pull request.
type Bundle struct {
	Repo       RepoRef
	PR         PullRequest
	Discussion []Comment
	Threads    []*ThreadNode
	Inference  string
	FetchedAt  time.Time
}
