package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"prterm/internal/github"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func TestPullRequestRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := github.RepoRef{Owner: "o", Name: "r"}

	prs := []github.PullRequest{
		{Number: 3, Title: "older", HeadRef: "a", BaseRef: "main", UpdatedAt: time.Unix(100, 0).UTC()},
		{Number: 7, Title: "newer", HeadRef: "b", BaseRef: "main", UpdatedAt: time.Unix(200, 0).UTC()},
	}
	if err := s.SavePullRequests(ctx, repo, prs); err != nil {
		t.Fatalf("SavePullRequests: %v", err)
	}

	got, err := s.LoadPullRequests(ctx, repo)
	if err != nil {
		t.Fatalf("LoadPullRequests: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d PRs, want 2", len(got))
	}
	if got[0].Number != 7 || got[1].Number != 3 {
		t.Fatalf("order = %d, %d, want newest first", got[0].Number, got[1].Number)
	}
	if !got[0].UpdatedAt.Equal(prs[1].UpdatedAt) {
		t.Fatalf("updated at = %v", got[0].UpdatedAt)
	}
}

func TestSavePullRequestsReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := github.RepoRef{Owner: "o", Name: "r"}

	if err := s.SavePullRequests(ctx, repo, []github.PullRequest{{Number: 1, Title: "closed since"}}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.SavePullRequests(ctx, repo, []github.PullRequest{{Number: 2, Title: "still open"}}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.LoadPullRequests(ctx, repo)
	if err != nil {
		t.Fatalf("LoadPullRequests: %v", err)
	}
	if len(got) != 1 || got[0].Number != 2 {
		t.Fatalf("stale rows survived: %+v", got)
	}
}

func TestBundleRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := github.RepoRef{Owner: "o", Name: "r"}

	bundle := &github.Bundle{
		Repo:       repo,
		PR:         github.PullRequest{Number: 5, Title: "Refactor parser"},
		Discussion: []github.Comment{{ID: 1, Author: "alice", Body: "hi"}},
		Threads: []*github.ThreadNode{{
			Comment: github.InlineComment{Comment: github.Comment{ID: 2}, Path: "a/b.go", Line: 42},
			Replies: []*github.ThreadNode{{Comment: github.InlineComment{Comment: github.Comment{ID: 3}}}},
		}},
		Inference: "1 discussion · 1 inline threads",
	}
	if err := s.SaveBundle(ctx, bundle); err != nil {
		t.Fatalf("SaveBundle: %v", err)
	}

	got, err := s.LoadBundle(ctx, repo, 5)
	if err != nil {
		t.Fatalf("LoadBundle: %v", err)
	}
	if got == nil || got.PR.Title != "Refactor parser" {
		t.Fatalf("bundle = %+v", got)
	}
	if len(got.Threads) != 1 || len(got.Threads[0].Replies) != 1 {
		t.Fatalf("thread shape lost: %+v", got.Threads)
	}
	if got.Threads[0].Comment.Path != "a/b.go" {
		t.Fatalf("path = %q", got.Threads[0].Comment.Path)
	}
}

func TestLoadBundleMissing(t *testing.T) {
	s := newTestStore(t)
	got, err := s.LoadBundle(context.Background(), github.RepoRef{Owner: "o", Name: "r"}, 99)
	if err != nil {
		t.Fatalf("LoadBundle: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for a cache miss, got %+v", got)
	}
}

func TestSaveBundleUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := github.RepoRef{Owner: "o", Name: "r"}

	first := &github.Bundle{Repo: repo, PR: github.PullRequest{Number: 5, Title: "v1"}}
	second := &github.Bundle{Repo: repo, PR: github.PullRequest{Number: 5, Title: "v2"}}
	if err := s.SaveBundle(ctx, first); err != nil {
		t.Fatalf("SaveBundle: %v", err)
	}
	if err := s.SaveBundle(ctx, second); err != nil {
		t.Fatalf("SaveBundle upsert: %v", err)
	}

	got, err := s.LoadBundle(ctx, repo, 5)
	if err != nil {
		t.Fatalf("LoadBundle: %v", err)
	}
	if got.PR.Title != "v2" {
		t.Fatalf("title = %q, want v2", got.PR.Title)
	}
}
