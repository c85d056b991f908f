package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gitrecap/models"
)

// UpsertRepository inserts or refreshes repository metadata and returns the
// row id the commits hang off.
func (s *Store) UpsertRepository(ctx context.Context, info models.RepoInfo) (int64, error) {
	if info.Owner == "" || info.Name == "" {
		return 0, fmt.Errorf("%w: repository owner and name cannot be empty", ErrInvalidInput)
	}

	query := `
		INSERT INTO repositories (owner, name, description, default_branch, url, stars)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner, name) DO UPDATE SET
			description = EXCLUDED.description,
			default_branch = EXCLUDED.default_branch,
			url = EXCLUDED.url,
			stars = EXCLUDED.stars
		RETURNING id
	`

	var id int64
	err := s.conn.QueryRowxContext(ctx, query,
		info.Owner, info.Name, info.Description, info.DefaultBranch, info.URL, info.Stars,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to store repository %s: %w", info.FullName(), err)
	}

	s.log.Debug("repository stored", zap.String("repo", info.FullName()), zap.Int64("id", id))
	return id, nil
}

// ArchiveSummary aggregates what the archive holds for one repository.
// Commit dates are absent until at least one dated commit is stored.
type ArchiveSummary struct {
	TotalCommits  int
	UniqueAuthors int
	FirstCommit   *time.Time
	LastCommit    *time.Time
}

// Summary reports the archive contents for one repository.
func (s *Store) Summary(ctx context.Context, owner, name string) (*ArchiveSummary, error) {
	if owner == "" || name == "" {
		return nil, fmt.Errorf("%w: repository owner and name cannot be empty", ErrInvalidInput)
	}

	var row struct {
		TotalCommits  int          `db:"total_commits"`
		UniqueAuthors int          `db:"unique_authors"`
		FirstCommit   sql.NullTime `db:"first_commit"`
		LastCommit    sql.NullTime `db:"last_commit"`
	}

	query := `
		SELECT
			COUNT(c.sha) AS total_commits,
			COUNT(DISTINCT c.author) AS unique_authors,
			MIN(c.committed_at) AS first_commit,
			MAX(c.committed_at) AS last_commit
		FROM repositories r
		LEFT JOIN commits c ON c.repository_id = r.id
		WHERE r.owner = $1 AND r.name = $2
		GROUP BY r.id
	`

	if err := s.conn.GetContext(ctx, &row, query, owner, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, owner, name)
		}
		return nil, fmt.Errorf("failed to get archive summary for %s/%s: %w", owner, name, err)
	}

	summary := &ArchiveSummary{
		TotalCommits:  row.TotalCommits,
		UniqueAuthors: row.UniqueAuthors,
	}
	if row.FirstCommit.Valid {
		first := row.FirstCommit.Time
		summary.FirstCommit = &first
	}
	if row.LastCommit.Valid {
		last := row.LastCommit.Time
		summary.LastCommit = &last
	}

	return summary, nil
}
