package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gitrecap/models"
)

// InsertCommits writes the records inside one transaction. Conflicting
// hashes are refreshed rather than duplicated, so re-archiving an
// overlapping window is safe.
func (s *Store) InsertCommits(ctx context.Context, repoID int64, records []models.CommitRecord) error {
	if repoID <= 0 {
		return fmt.Errorf("%w: repository id must be positive", ErrInvalidInput)
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransaction, err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO commits (sha, repository_id, title, category, author, committer, committed_at, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (sha) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			author = EXCLUDED.author,
			committer = EXCLUDED.committer,
			committed_at = EXCLUDED.committed_at,
			url = EXCLUDED.url
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare commit insert statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if _, err := stmt.ExecContext(ctx,
			record.Hash,
			repoID,
			record.Title,
			string(record.Category),
			nullIfEmpty(record.AuthorHandle),
			nullIfEmpty(record.CommitterHandle),
			record.Timestamp,
			record.URL,
		); err != nil {
			return fmt.Errorf("failed to insert commit %s: %w", record.Hash, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %v", ErrTransaction, err)
	}

	s.log.Info("commits archived", zap.Int64("repo_id", repoID), zap.Int("count", len(records)))
	return nil
}

// nullIfEmpty maps absent handles to SQL NULL instead of empty strings.
func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
