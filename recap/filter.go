package recap

import (
	"errors"
	"fmt"
	"regexp"

	"gitrecap/models"
)

// ErrInvalidPattern reports a filter expression that does not compile.
var ErrInvalidPattern = errors.New("invalid filter pattern")

// FilterOptions carries the user-facing filter switches.
type FilterOptions struct {
	ExcludeMerges bool
	Include       string
	Exclude       string
}

// filterStage is one predicate in the chain. A record survives the stage
// when keep returns true.
type filterStage struct {
	name string
	keep func(models.CommitRecord) bool
}

// FilterChain applies a fixed sequence of title predicates. Stages always
// run in the same order: merge exclusion, then the exclude pattern, then
// the include pattern.
type FilterChain struct {
	stages []filterStage
}

// NewFilterChain compiles the configured filters. Pattern matching is
// case-insensitive. A pattern that fails to compile is reported up front
// wrapped in ErrInvalidPattern.
func NewFilterChain(opts FilterOptions) (*FilterChain, error) {
	chain := &FilterChain{}

	if opts.ExcludeMerges {
		chain.stages = append(chain.stages, filterStage{
			name: "no-merges",
			keep: func(record models.CommitRecord) bool {
				return !mergePattern.MatchString(record.Title)
			},
		})
	}

	if opts.Exclude != "" {
		re, err := compileInsensitive(opts.Exclude)
		if err != nil {
			return nil, fmt.Errorf("%w: exclude %q: %v", ErrInvalidPattern, opts.Exclude, err)
		}
		chain.stages = append(chain.stages, filterStage{
			name: "exclude",
			keep: func(record models.CommitRecord) bool {
				return !re.MatchString(record.Title)
			},
		})
	}

	if opts.Include != "" {
		re, err := compileInsensitive(opts.Include)
		if err != nil {
			return nil, fmt.Errorf("%w: include %q: %v", ErrInvalidPattern, opts.Include, err)
		}
		chain.stages = append(chain.stages, filterStage{
			name: "include",
			keep: func(record models.CommitRecord) bool {
				return re.MatchString(record.Title)
			},
		})
	}

	return chain, nil
}

// Apply runs every stage over the records and returns the survivors in
// their original order. A nil or empty chain returns the input unchanged.
func (c *FilterChain) Apply(records []models.CommitRecord) []models.CommitRecord {
	if c == nil || len(c.stages) == 0 {
		return records
	}

	kept := make([]models.CommitRecord, 0, len(records))
recordLoop:
	for _, record := range records {
		for _, stage := range c.stages {
			if !stage.keep(record) {
				continue recordLoop
			}
		}
		kept = append(kept, record)
	}
	return kept
}

func compileInsensitive(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}
