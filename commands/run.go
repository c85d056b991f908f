package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gitrecap/config"
	"gitrecap/dates"
	"gitrecap/github"
	"gitrecap/logger"
	"gitrecap/models"
	"gitrecap/recap"
	"gitrecap/render"
	"gitrecap/service"
	"gitrecap/token"
)

// recapRunner carries everything one recap cycle needs. Watch mode reuses
// the same runner across ticks; only the date window is resolved per cycle
// so relative expressions track the clock.
type recapRunner struct {
	log      *zap.Logger
	cfg      *config.Config
	owner    string
	repo     string
	svc      *service.Service
	renderer render.Renderer
	resolver dates.Resolver
	filters  *recap.FilterChain
}

func (rc *RootCommand) run(cmd *cobra.Command, args []string) error {
	owner, repo, err := splitRepoArg(args[0])
	if err != nil {
		return err
	}

	log, err := logger.New(rc.verbose, rc.quiet)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if rc.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load(rc.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	runner, err := rc.newRunner(cmd.Context(), log, cfg, owner, repo)
	if err != nil {
		return err
	}

	if cfg.Watch > 0 {
		return runner.watch(cmd.Context(), cfg.Watch, cmd.OutOrStdout())
	}

	return runner.cycle(cmd.Context(), cmd.OutOrStdout())
}

// newRunner wires the filter chain, renderer, token chain, API client, and
// service for one invocation.
func (rc *RootCommand) newRunner(
	ctx context.Context,
	log *zap.Logger,
	cfg *config.Config,
	owner, repo string,
) (*recapRunner, error) {
	filters, err := recap.NewFilterChain(recap.FilterOptions{
		ExcludeMerges: cfg.NoMerges,
		Include:       cfg.Include,
		Exclude:       cfg.Exclude,
	})
	if err != nil {
		return nil, err
	}

	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New(format, render.Options{IncludeStats: cfg.Stats})
	if err != nil {
		return nil, err
	}

	apiToken := token.Resolve(ctx, log, token.DefaultChain(cfg.Token)...)

	client, err := github.NewClient(github.Options{
		BaseURL: cfg.APIURL,
		Token:   apiToken,
		Timeout: cfg.Timeout,
		Retries: cfg.Retries,
		Verbose: rc.verbose,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}

	return &recapRunner{
		log:      log,
		cfg:      cfg,
		owner:    owner,
		repo:     repo,
		svc:      service.New(client, log),
		renderer: renderer,
		resolver: dates.NewResolver(),
		filters:  filters,
	}, nil
}

// cycle resolves the window, builds the report, and writes it out once.
func (r *recapRunner) cycle(ctx context.Context, out io.Writer) error {
	window, err := r.resolver.ResolveRange(r.cfg.Since, r.cfg.Until)
	if err != nil {
		return err
	}

	report, err := r.svc.BuildReport(ctx, service.Params{
		Owner:     r.owner,
		Repo:      r.repo,
		Ref:       r.cfg.Branch,
		Window:    window,
		Author:    r.cfg.Author,
		Committer: r.cfg.Committer,
		Max:       r.cfg.Max,
		Filters:   r.filters,
	})
	if err != nil {
		return err
	}

	return r.write(report, out)
}

// write renders the report to the configured output file, or to fallback
// when no file is set. The file is recreated on every call so watch mode
// always leaves the latest report behind.
func (r *recapRunner) write(report *models.Report, fallback io.Writer) error {
	if r.cfg.Output == "" {
		return r.renderer.Render(fallback, report)
	}

	f, err := os.Create(r.cfg.Output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := r.renderer.Render(f, report); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// watch re-runs the recap cycle on the given interval until the context is
// cancelled or an interrupt arrives. Tick failures are logged and the loop
// keeps going, except when the output writer itself has gone away.
func (r *recapRunner) watch(ctx context.Context, interval time.Duration, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.log.Info("watch mode started",
		zap.String("repo", r.owner+"/"+r.repo),
		zap.Duration("interval", interval))

	if err := r.cycle(ctx, out); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("watch mode stopped")
			return nil
		case <-ticker.C:
			err := r.cycle(ctx, out)
			switch {
			case err == nil:
			case errors.Is(err, syscall.EPIPE), errors.Is(err, os.ErrClosed):
				return err
			default:
				r.log.Warn("recap cycle failed", zap.Error(err))
			}
		}
	}
}
