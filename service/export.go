package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gitrecap/models"
)

// Archiver abstracts the storage operations needed by Archive
// (for testability).
type Archiver interface {
	UpsertRepository(ctx context.Context, info models.RepoInfo) (int64, error)
	InsertCommits(ctx context.Context, repoID int64, records []models.CommitRecord) error
}

// Archive builds a report and persists it: repository metadata first, then
// the kept commits keyed to the stored repository row.
func (s *Service) Archive(ctx context.Context, store Archiver, params Params) (*models.Report, error) {
	report, err := s.BuildReport(ctx, params)
	if err != nil {
		return nil, err
	}

	info, err := s.client.GetRepository(ctx, params.Owner, params.Repo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository %s/%s: %w", params.Owner, params.Repo, err)
	}

	repoID, err := store.UpsertRepository(ctx, *info)
	if err != nil {
		return nil, fmt.Errorf("failed to store repository %s/%s: %w", params.Owner, params.Repo, err)
	}

	if len(report.Commits) == 0 {
		s.log.Info("no commits to archive", zap.String("repo", report.FullName()))
		return report, nil
	}

	if err := store.InsertCommits(ctx, repoID, report.Commits); err != nil {
		return nil, fmt.Errorf("failed to store commits for %s/%s: %w", params.Owner, params.Repo, err)
	}

	s.log.Info("archived commits",
		zap.String("repo", report.FullName()),
		zap.Int64("repo_id", repoID),
		zap.Int("commit_count", len(report.Commits)))

	return report, nil
}
