// Package token discovers the API token from an ordered list of sources.
package token

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// envVars are the environment variables consulted for a token, most
// specific first.
var envVars = []string{"GITRECAP_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"}

// Provider yields a token from one source. An empty token with a nil error
// means the source has nothing to offer and the next one should be tried.
type Provider interface {
	Name() string
	Token(ctx context.Context) (string, error)
}

// Resolve walks the providers in order and returns the first non-empty
// token. Provider failures are logged and skipped rather than surfaced, so
// a broken source never blocks a later one. An empty result means every
// source came up empty and requests proceed unauthenticated.
func Resolve(ctx context.Context, log *zap.Logger, providers ...Provider) string {
	if log == nil {
		log = zap.NewNop()
	}

	for _, provider := range providers {
		value, err := provider.Token(ctx)
		if err != nil {
			log.Debug("token source failed",
				zap.String("source", provider.Name()),
				zap.Error(err),
			)
			continue
		}
		if value == "" {
			continue
		}

		log.Debug("token resolved", zap.String("source", provider.Name()))
		return value
	}

	log.Debug("no token found, proceeding unauthenticated")
	return ""
}

// DefaultChain is the standard discovery order: the explicit flag value,
// then the environment, then the gh CLI session.
func DefaultChain(flagToken string) []Provider {
	return []Provider{
		Static{Value: flagToken},
		Env{},
		NewGhCLI(),
	}
}

// Static serves a fixed token, typically the --token flag value.
type Static struct {
	Value string
}

// Name identifies the source in logs.
func (Static) Name() string { return "flag" }

// Token returns the fixed value.
func (s Static) Token(context.Context) (string, error) {
	return strings.TrimSpace(s.Value), nil
}

// Env reads the first non-empty token environment variable.
type Env struct{}

// Name identifies the source in logs.
func (Env) Name() string { return "env" }

// Token scans the known variables in order.
func (Env) Token(context.Context) (string, error) {
	for _, name := range envVars {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value, nil
		}
	}
	return "", nil
}

// GhCLI asks a locally installed gh binary for its stored token.
type GhCLI struct {
	run func(ctx context.Context) ([]byte, error)
}

// NewGhCLI returns a provider backed by the real gh binary.
func NewGhCLI() GhCLI {
	return GhCLI{
		run: func(ctx context.Context) ([]byte, error) {
			return exec.CommandContext(ctx, "gh", "auth", "token").Output()
		},
	}
}

// Name identifies the source in logs.
func (GhCLI) Name() string { return "gh" }

// Token runs the CLI and trims its output. A missing or unauthenticated gh
// surfaces as an error for the caller to skip past.
func (g GhCLI) Token(ctx context.Context) (string, error) {
	out, err := g.run(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
