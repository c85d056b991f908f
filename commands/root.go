// Package commands implements the gitrecap command tree.
package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	// ErrBadRepoArg is returned when the repository argument is not owner/name.
	ErrBadRepoArg = errors.New("repository must be given as owner/name")

	// ErrNoDSN is returned when export runs without a database connection string.
	ErrNoDSN = errors.New("database connection string is required (use --dsn or GITRECAP_DSN)")
)

// RootCommand holds the persistent options shared by every subcommand.
type RootCommand struct {
	verbose    bool
	quiet      bool
	noColor    bool
	configPath string
}

// NewRootCommand assembles the gitrecap command tree. The version triple is
// stamped by the build and surfaced through the version subcommand.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rc := &RootCommand{}

	cmd := &cobra.Command{
		Use:   "gitrecap [owner/repo]",
		Short: "Summarize repository commit activity over a date window",
		Long: `gitrecap fetches the commits of a hosted repository that fall inside a
date window, filters and categorizes them by title, and renders the result
as a table, JSON, CSV, markdown, or an HTML report.

The window bounds accept absolute dates ("2025-06-01") and relative
expressions ("today", "yesterday", "2 weeks ago").`,
		Example: `  gitrecap golang/go --since "2 weeks ago" --stats
  gitrecap golang/go -b release-branch.go1.24 --no-merges -f markdown
  gitrecap golang/go --format html --output recap.html --stats`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          rc.run,
	}

	cmd.PersistentFlags().BoolVarP(&rc.verbose, "verbose", "v", false, "verbose diagnostics")
	cmd.PersistentFlags().BoolVarP(&rc.quiet, "quiet", "q", false, "errors only")
	cmd.PersistentFlags().BoolVar(&rc.noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().StringVar(&rc.configPath, "config", "", "config file (default .gitrecap.yaml in . or $HOME)")

	registerFetchFlags(cmd)
	registerRenderFlags(cmd)

	cmd.AddCommand(newExportCommand(rc))
	cmd.AddCommand(newVersionCommand(version, commit, date))

	return cmd
}

// registerFetchFlags declares the flags that scope which commits are
// retrieved. Names match the config keys so viper binds them directly.
func registerFetchFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("branch", "b", "", "branch or ref to walk (default: the repository default branch)")
	flags.String("since", "1 week ago", "start of the date window")
	flags.String("until", "today", "end of the date window")
	flags.String("author", "", "only commits authored by this login")
	flags.String("committer", "", "only commits committed by this login")
	flags.IntP("max", "m", 0, "cap on fetched commits (0 = unlimited)")
	flags.Bool("no-merges", false, "drop merge commits")
	flags.String("include", "", "keep only commit titles matching this pattern")
	flags.String("exclude", "", "drop commit titles matching this pattern")
	flags.String("token", "", "API token (falls back to environment, then the gh CLI)")
	flags.Duration("timeout", 30*time.Second, "per-request timeout")
	flags.Int("retries", 3, "retry attempts for transport failures")
}

// registerRenderFlags declares the flags that shape the rendered output.
func registerRenderFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("format", "f", "text", "output format: text, json, csv, markdown, html")
	flags.StringP("output", "o", "", "write the report to this file instead of stdout")
	flags.Bool("stats", false, "include aggregate statistics")
	flags.Duration("watch", 0, "re-run on this interval until interrupted (0 = run once)")
}

// splitRepoArg parses the positional owner/name argument.
func splitRepoArg(arg string) (string, string, error) {
	owner, repo, found := strings.Cut(arg, "/")
	if !found || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("%w: got %q", ErrBadRepoArg, arg)
	}
	return owner, repo, nil
}
