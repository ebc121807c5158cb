// Package store is the sqlite snapshot cache: the last fetched PR list and
// per-PR comment bundles, so the viewer starts with data before the first
// refresh completes. UI state is never persisted here.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"prterm/internal/github"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS pull_requests (
  repo TEXT NOT NULL,
  number INTEGER NOT NULL,
  title TEXT NOT NULL,
  head_ref TEXT NOT NULL,
  base_ref TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (repo, number)
);
CREATE TABLE IF NOT EXISTS bundles (
  repo TEXT NOT NULL,
  number INTEGER NOT NULL,
  payload TEXT NOT NULL,
  fetched_at TEXT NOT NULL,
  PRIMARY KEY (repo, number)
);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SavePullRequests replaces the cached open-PR list for the repository.
func (s *Store) SavePullRequests(ctx context.Context, repo github.RepoRef, prs []github.PullRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pull_requests WHERE repo = ?`, repo.String()); err != nil {
		return fmt.Errorf("clear pull requests: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO pull_requests (repo, number, title, head_ref, base_ref, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	for _, pr := range prs {
		_, err := stmt.ExecContext(
			ctx,
			repo.String(),
			pr.Number,
			pr.Title,
			pr.HeadRef,
			pr.BaseRef,
			pr.UpdatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("save pull request #%d: %w", pr.Number, err)
		}
	}
	return tx.Commit()
}

// LoadPullRequests returns the cached list, newest update first. An empty
// cache yields an empty slice, not an error.
func (s *Store) LoadPullRequests(ctx context.Context, repo github.RepoRef) ([]github.PullRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT number, title, head_ref, base_ref, updated_at
FROM pull_requests WHERE repo = ? ORDER BY updated_at DESC
`, repo.String())
	if err != nil {
		return nil, fmt.Errorf("load pull requests: %w", err)
	}
	defer rows.Close()

	var prs []github.PullRequest
	for rows.Next() {
		var pr github.PullRequest
		var updated string
		if err := rows.Scan(&pr.Number, &pr.Title, &pr.HeadRef, &pr.BaseRef, &updated); err != nil {
			return nil, fmt.Errorf("scan pull request: %w", err)
		}
		pr.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		prs = append(prs, pr)
	}
	return prs, rows.Err()
}

// SaveBundle upserts one PR's comment bundle as a JSON payload.
func (s *Store) SaveBundle(ctx context.Context, bundle *github.Bundle) error {
	payload, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO bundles (repo, number, payload, fetched_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(repo, number) DO UPDATE SET
  payload=excluded.payload,
  fetched_at=excluded.fetched_at
`, bundle.Repo.String(), bundle.PR.Number, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save bundle #%d: %w", bundle.PR.Number, err)
	}
	return nil
}

// LoadBundle returns the cached bundle for one PR, or nil when absent.
func (s *Store) LoadBundle(ctx context.Context, repo github.RepoRef, number int) (*github.Bundle, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
SELECT payload FROM bundles WHERE repo = ? AND number = ?
`, repo.String(), number).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load bundle #%d: %w", number, err)
	}

	var bundle github.Bundle
	if err := json.Unmarshal([]byte(payload), &bundle); err != nil {
		return nil, fmt.Errorf("decode bundle #%d: %w", number, err)
	}
	return &bundle, nil
}
