package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClientWithHTTPClient(server.Client(), server.URL+"/", RepoRef{Owner: "o", Name: "r"})
	require.NoError(t, err)
	return client
}

type userJSON struct {
	Login string `json:"login"`
}

type refJSON struct {
	Ref string `json:"ref"`
}

type prJSON struct {
	Number  int     `json:"number"`
	Title   string  `json:"title"`
	Head    refJSON `json:"head"`
	Base    refJSON `json:"base"`
	Updated string  `json:"updated_at,omitempty"`
}

type issueCommentJSON struct {
	ID      int64     `json:"id"`
	Body    string    `json:"body"`
	User    *userJSON `json:"user"`
	Created string    `json:"created_at,omitempty"`
	HTMLURL string    `json:"html_url"`
}

type reviewCommentJSON struct {
	ID           int64     `json:"id"`
	Body         string    `json:"body"`
	User         *userJSON `json:"user"`
	Created      string    `json:"created_at,omitempty"`
	HTMLURL      string    `json:"html_url"`
	Path         string    `json:"path"`
	Line         *int      `json:"line"`
	OriginalLine *int      `json:"original_line"`
	DiffHunk     string    `json:"diff_hunk"`
	InReplyTo    *int64    `json:"in_reply_to_id,omitempty"`
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestListOpenPullRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		writeJSON(t, w, []prJSON{
			{Number: 7, Title: "Fix flaky watcher", Head: refJSON{Ref: "fix"}, Base: refJSON{Ref: "main"}, Updated: "2026-02-01T10:00:00Z"},
			{Number: 3, Title: "Add cache", Head: refJSON{Ref: "cache"}, Base: refJSON{Ref: "main"}, Updated: "2026-01-20T09:00:00Z"},
		})
	})

	client := newTestClient(t, mux)
	prs, err := client.ListOpenPullRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, prs, 2)

	assert.Equal(t, 7, prs[0].Number)
	assert.Equal(t, "Fix flaky watcher", prs[0].Title)
	assert.Equal(t, "fix", prs[0].HeadRef)
	assert.Equal(t, "main", prs[0].BaseRef)
	assert.Equal(t, 2026, prs[0].UpdatedAt.Year())
}

func TestFetchBundle(t *testing.T) {
	line := 42
	rootID := int64(100)

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/5", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, prJSON{Number: 5, Title: "Refactor parser", Head: refJSON{Ref: "parser"}, Base: refJSON{Ref: "main"}, Updated: "2026-02-01T10:00:00Z"})
	})
	mux.HandleFunc("/repos/o/r/issues/5/comments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []issueCommentJSON{
			{ID: 1, Body: "looks good", User: &userJSON{Login: "alice"}, Created: "2026-01-30T08:00:00Z", HTMLURL: "http://u/1"},
			{ID: 2, Body: "deleted account", User: nil, Created: "2026-01-30T09:00:00Z"},
		})
	})
	mux.HandleFunc("/repos/o/r/pulls/5/comments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []reviewCommentJSON{
			{ID: rootID, Body: "rename this", User: &userJSON{Login: "bob"}, Created: "2026-01-29T08:00:00Z", Path: "a/b.go", Line: &line, DiffHunk: "@@ -1,1 +1,1 @@\n-x\n+y"},
			{ID: 101, Body: "done", User: &userJSON{Login: "alice"}, Created: "2026-01-31T08:00:00Z", Path: "a/b.go", Line: &line, InReplyTo: &rootID},
		})
	})

	client := newTestClient(t, mux)
	bundle, err := client.FetchBundle(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, "Refactor parser", bundle.PR.Title)
	require.Len(t, bundle.Discussion, 2)
	assert.Equal(t, "alice", bundle.Discussion[0].Author)
	assert.Equal(t, "ghost", bundle.Discussion[1].Author)

	require.Len(t, bundle.Threads, 1)
	root := bundle.Threads[0]
	assert.Equal(t, rootID, root.Comment.ID)
	assert.Equal(t, "a/b.go", root.Comment.Path)
	assert.Equal(t, 42, root.Comment.Line)
	require.Len(t, root.Replies, 1)
	assert.Equal(t, int64(101), root.Replies[0].Comment.ID)
	assert.Empty(t, root.Replies[0].Replies)

	assert.Equal(t, "2 discussion · 1 inline threads", bundle.Inference)
}

func TestAssembleThreadsOrphanReply(t *testing.T) {
	missing := int64(999)
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/5", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, prJSON{Number: 5})
	})
	mux.HandleFunc("/repos/o/r/issues/5/comments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []issueCommentJSON{})
	})
	mux.HandleFunc("/repos/o/r/pulls/5/comments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []reviewCommentJSON{
			{ID: 200, Body: "reply to a deleted root", User: &userJSON{Login: "bob"}, Path: "f.go", InReplyTo: &missing},
		})
	})

	client := newTestClient(t, mux)
	bundle, err := client.FetchBundle(context.Background(), 5)
	require.NoError(t, err)

	// The orphan becomes a root instead of vanishing.
	require.Len(t, bundle.Threads, 1)
	assert.Equal(t, int64(200), bundle.Threads[0].Comment.ID)
	assert.Equal(t, 0, len(bundle.Threads[0].Replies))
}

func TestCommitBaseURL(t *testing.T) {
	assert.Equal(t, "https://github.com/o/r", RepoRef{Owner: "o", Name: "r"}.CommitBaseURL())
	assert.Equal(t, "", RepoRef{}.CommitBaseURL())
}
