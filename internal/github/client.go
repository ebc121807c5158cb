// Package github is the data source: it fetches open pull requests and the
// per-PR comment bundle the viewer renders.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"
)

// ghostLogin stands in for deleted accounts the API reports with no user.
const ghostLogin = "ghost"

// Client wraps the go-github REST client for one repository.
type Client struct {
	gh   *gh.Client
	repo RepoRef
}

// NewClient builds a client with the transport stack
// httpcache (conditional request caching) -> go-github-ratelimit
// (sleeps on secondary rate limits) -> go-github with token auth.
func NewClient(repo RepoRef, token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &Client{gh: client, repo: repo}
}

// NewClientWithHTTPClient builds a client against a custom base URL so tests
// can point it at an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, repo RepoRef) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client := gh.NewClient(httpClient)
	client.BaseURL = u
	return &Client{gh: client, repo: repo}, nil
}

func (c *Client) Repo() RepoRef { return c.repo }

// ListOpenPullRequests returns the repository's open PRs, most recently
// updated first, following pagination.
func (c *Client) ListOpenPullRequests(ctx context.Context) ([]PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:       "open",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var all []PullRequest
	for {
		prs, resp, err := c.gh.PullRequests.List(ctx, c.repo.Owner, c.repo.Name, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for %s (page %d): %w", c.repo, opts.Page, err)
		}
		for _, pr := range prs {
			all = append(all, mapPullRequest(pr))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// FetchBundle retrieves everything the viewer needs for one PR: metadata,
// discussion comments, and inline review comments assembled into threads.
func (c *Client) FetchBundle(ctx context.Context, number int) (*Bundle, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, c.repo.Owner, c.repo.Name, number)
	if err != nil {
		return nil, fmt.Errorf("fetching %s#%d: %w", c.repo, number, err)
	}

	discussion, err := c.listDiscussion(ctx, number)
	if err != nil {
		return nil, err
	}
	reviewComments, err := c.listReviewComments(ctx, number)
	if err != nil {
		return nil, err
	}
	threads := assembleThreads(reviewComments)

	return &Bundle{
		Repo:       c.repo,
		PR:         mapPullRequest(pr),
		Discussion: discussion,
		Threads:    threads,
		Inference:  inferenceLabel(len(discussion), len(threads)),
		FetchedAt:  time.Now(),
	}, nil
}

// listDiscussion pages through the PR's issue-level comments.
func (c *Client) listDiscussion(ctx context.Context, number int) ([]Comment, error) {
	opts := &gh.IssueListCommentsOptions{ListOptions: gh.ListOptions{PerPage: 100}}

	var all []Comment
	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, c.repo.Owner, c.repo.Name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing discussion comments for %s#%d (page %d): %w", c.repo, number, opts.Page, err)
		}
		for _, cm := range comments {
			all = append(all, Comment{
				ID:        cm.GetID(),
				Author:    mapLogin(cm.GetUser()),
				Body:      cm.GetBody(),
				CreatedAt: cm.GetCreatedAt().Time,
				HTMLURL:   cm.GetHTMLURL(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// listReviewComments pages through the PR's inline review comments in
// creation order, which thread assembly depends on.
func (c *Client) listReviewComments(ctx context.Context, number int) ([]*gh.PullRequestComment, error) {
	opts := &gh.PullRequestListCommentsOptions{
		Sort:        "created",
		Direction:   "asc",
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var all []*gh.PullRequestComment
	for {
		comments, resp, err := c.gh.PullRequests.ListComments(ctx, c.repo.Owner, c.repo.Name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing review comments for %s#%d (page %d): %w", c.repo, number, opts.Page, err)
		}
		all = append(all, comments...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// assembleThreads turns the flat review-comment list into reply trees using
// in_reply_to_id. A reply whose parent is missing (pagination gap, deleted
// comment) is promoted to a root rather than dropped.
func assembleThreads(comments []*gh.PullRequestComment) []*ThreadNode {
	var roots []*ThreadNode
	byID := make(map[int64]*ThreadNode, len(comments))

	for _, cm := range comments {
		node := &ThreadNode{Comment: mapInlineComment(cm)}
		byID[node.Comment.ID] = node

		if parent, ok := byID[cm.GetInReplyTo()]; ok && cm.GetInReplyTo() != 0 {
			parent.Replies = append(parent.Replies, node)
			continue
		}
		roots = append(roots, node)
	}
	return roots
}

func mapPullRequest(pr *gh.PullRequest) PullRequest {
	return PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		HeadRef:   pr.GetHead().GetRef(),
		BaseRef:   pr.GetBase().GetRef(),
		UpdatedAt: pr.GetUpdatedAt().Time,
	}
}

func mapInlineComment(cm *gh.PullRequestComment) InlineComment {
	return InlineComment{
		Comment: Comment{
			ID:        cm.GetID(),
			Author:    mapLogin(cm.GetUser()),
			Body:      cm.GetBody(),
			CreatedAt: cm.GetCreatedAt().Time,
			HTMLURL:   cm.GetHTMLURL(),
		},
		Path:         cm.GetPath(),
		Line:         cm.GetLine(),
		OriginalLine: cm.GetOriginalLine(),
		DiffHunk:     cm.GetDiffHunk(),
	}
}

func mapLogin(u *gh.User) string {
	if u == nil || u.GetLogin() == "" {
		return ghostLogin
	}
	return u.GetLogin()
}

func inferenceLabel(discussion, threads int) string {
	return fmt.Sprintf("%d discussion · %d inline threads", discussion, threads)
}
