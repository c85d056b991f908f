// Package service orchestrates fetching commits, shaping them into reports,
// and archiving them.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gitrecap/github"
	"gitrecap/models"
	"gitrecap/recap"
)

// Client abstracts the API operations needed by the service
// (for testability).
type Client interface {
	ListCommits(ctx context.Context, owner, repo string, opts github.ListOptions) ([]github.Commit, error)
	GetRepository(ctx context.Context, owner, repo string) (*models.RepoInfo, error)
}

// ErrNoWindow reports report parameters without a usable date range.
var ErrNoWindow = errors.New("date window is not set")

// Params describe one recap run.
type Params struct {
	Owner     string
	Repo      string
	Ref       string
	Window    models.DateRange
	Author    string
	Committer string
	Max       int
	Filters   *recap.FilterChain
}

// Service builds reports from one API client.
type Service struct {
	client Client
	log    *zap.Logger
	now    func() time.Time
}

// New creates a service around the given client.
func New(client Client, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		client: client,
		log:    log,
		now:    time.Now,
	}
}

// BuildReport fetches the commits inside the window and runs them through
// the shaping pipeline: normalize, filter, categorize, aggregate. The
// returned report always carries statistics; renderers decide whether to
// show them.
func (s *Service) BuildReport(ctx context.Context, params Params) (*models.Report, error) {
	if params.Window.Start.IsZero() || params.Window.End.IsZero() {
		return nil, ErrNoWindow
	}

	s.log.Info("fetching commits",
		zap.String("owner", params.Owner),
		zap.String("repo", params.Repo),
		zap.Time("since", params.Window.Start),
		zap.Time("until", params.Window.End))

	raw, err := s.client.ListCommits(ctx, params.Owner, params.Repo, github.ListOptions{
		Ref:       params.Ref,
		Window:    params.Window,
		Author:    params.Author,
		Committer: params.Committer,
		Max:       params.Max,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commits for %s/%s: %w", params.Owner, params.Repo, err)
	}

	records := recap.NormalizeAll(raw)
	records = params.Filters.Apply(records)
	recap.CategorizeAll(records)

	report := &models.Report{
		Owner:       params.Owner,
		Repo:        params.Repo,
		Ref:         params.Ref,
		Window:      params.Window,
		GeneratedAt: s.now(),
		Commits:     records,
		Stats:       recap.ComputeStats(records),
	}

	s.log.Info("report built",
		zap.String("repo", report.FullName()),
		zap.Int("fetched", len(raw)),
		zap.Int("kept", len(records)))

	return report, nil
}
