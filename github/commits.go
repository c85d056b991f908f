package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"gitrecap/models"
)

// perPage is GitHub's maximum page size for the commit listing endpoint.
const perPage = 100

// Signature is the git-level identity attached to a commit.
type Signature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// CommitDetail is the nested commit object of the listing payload.
type CommitDetail struct {
	Message   string     `json:"message"`
	Author    *Signature `json:"author"`
	Committer *Signature `json:"committer"`
}

// Account is a linked user account; null in the payload when the commit
// identity matches no account.
type Account struct {
	Login string `json:"login"`
}

// Commit is one raw entry of the commit listing response.
type Commit struct {
	SHA       string       `json:"sha"`
	Commit    CommitDetail `json:"commit"`
	Author    *Account     `json:"author"`
	Committer *Account     `json:"committer"`
	HTMLURL   string       `json:"html_url"`
}

// ListOptions scope a commit listing call.
type ListOptions struct {
	// Ref names the branch to walk; empty means the default branch.
	Ref string
	// Window bounds commit timestamps; both ends are passed through to
	// the API in RFC3339 UTC, boundary semantics are upstream-defined.
	Window models.DateRange
	// Author and Committer filter server-side when non-empty.
	Author    string
	Committer string
	// Max caps the number of returned records; 0 means unlimited.
	Max int
}

// ListCommits retrieves the ordered raw commit records for owner/repo that
// intersect the window, following pagination until exhausted or the cap is
// reached. A failure on any page discards everything fetched so far.
func (c *Client) ListCommits(ctx context.Context, owner, repo string, opts ListOptions) ([]Commit, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("%w: owner and repository must not be empty", ErrInvalidInput)
	}

	pageURL := c.commitsURL(owner, repo, opts)
	var all []Commit

	for page := 1; pageURL != ""; page++ {
		resp, err := c.do(ctx, pageURL)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			body := readErrorBody(resp.Body)
			c.log.Error("commit listing failed",
				zap.String("repo", owner+"/"+repo),
				zap.Int("page", page),
				zap.Int("status_code", resp.StatusCode))
			return nil, classifyStatus(resp.StatusCode, body)
		}

		var batch []Commit
		if err := decodeJSONAndClose(resp.Body, &batch); err != nil {
			return nil, err
		}

		c.monitor.Observe(resp.Header)
		all = append(all, batch...)

		c.log.Debug("fetched commits page",
			zap.String("repo", owner+"/"+repo),
			zap.Int("page", page),
			zap.Int("page_size", len(batch)),
			zap.Int("accumulated", len(all)))

		if opts.Max > 0 && len(all) >= opts.Max {
			if len(all) > opts.Max {
				all = all[:opts.Max]
			}
			c.log.Debug("result cap reached",
				zap.String("repo", owner+"/"+repo),
				zap.Int("max", opts.Max))
			break
		}

		pageURL = ParseLinkHeader(resp.Header.Get("Link"))["next"]
		if pageURL != "" && !c.authenticated {
			c.sleep(pageDelay)
		}
	}

	return all, nil
}

// commitsURL builds the first page URL for the listing.
func (c *Client) commitsURL(owner, repo string, opts ListOptions) string {
	u := c.baseURL.ResolveReference(&url.URL{
		Path: fmt.Sprintf("/repos/%s/%s/commits", owner, repo),
	})

	q := u.Query()
	q.Set("per_page", strconv.Itoa(perPage))
	if opts.Ref != "" {
		q.Set("sha", opts.Ref)
	}
	if !opts.Window.Start.IsZero() {
		q.Set("since", opts.Window.Start.UTC().Format(time.RFC3339))
	}
	if !opts.Window.End.IsZero() {
		q.Set("until", opts.Window.End.UTC().Format(time.RFC3339))
	}
	if opts.Author != "" {
		q.Set("author", opts.Author)
	}
	if opts.Committer != "" {
		q.Set("committer", opts.Committer)
	}
	u.RawQuery = q.Encode()

	return u.String()
}
