package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gitrecap/config"
	"gitrecap/db"
	"gitrecap/logger"
	"gitrecap/service"
)

const summaryDateLayout = "2006-01-02"

// newExportCommand creates the export subcommand, which runs the same
// fetch/filter/categorize pipeline and archives the result into Postgres
// instead of rendering it.
func newExportCommand(rc *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [owner/repo]",
		Short: "Archive a recap window into Postgres",
		Long: `export fetches the commits of the window, runs them through the same
filter and categorize pipeline as the root command, and upserts them into a
Postgres archive for later querying.`,
		Example: `  gitrecap export golang/go --since "1 month ago" --dsn postgres://localhost/recaps
  GITRECAP_DSN=postgres://localhost/recaps gitrecap export golang/go`,
		Args: cobra.ExactArgs(1),
		RunE: rc.runExport,
	}

	registerFetchFlags(cmd)
	cmd.Flags().String("dsn", "", "Postgres connection string")

	return cmd
}

func (rc *RootCommand) runExport(cmd *cobra.Command, args []string) error {
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
	if cfg.DSN == "" {
		return ErrNoDSN
	}

	runner, err := rc.newRunner(cmd.Context(), log, cfg, owner, repo)
	if err != nil {
		return err
	}

	return runner.export(cmd.Context(), cmd.OutOrStdout())
}

// export archives one window and prints what the archive now holds.
func (r *recapRunner) export(ctx context.Context, out io.Writer) error {
	store, err := db.Open(r.cfg.DSN, r.log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	window, err := r.resolver.ResolveRange(r.cfg.Since, r.cfg.Until)
	if err != nil {
		return err
	}

	report, err := r.svc.Archive(ctx, store, service.Params{
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

	summary, err := store.Summary(ctx, r.owner, r.repo)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(out, "Archived %d commits from %s\n", len(report.Commits), report.FullName())
	fmt.Fprintf(out, "Archive holds %d commits by %d authors", summary.TotalCommits, summary.UniqueAuthors)
	if summary.FirstCommit != nil && summary.LastCommit != nil {
		fmt.Fprintf(out, " between %s and %s",
			summary.FirstCommit.Format(summaryDateLayout),
			summary.LastCommit.Format(summaryDateLayout))
	}
	fmt.Fprintln(out)

	return nil
}
