package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"gitrecap/models"
)

type repositoryPayload struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	DefaultBranch   string `json:"default_branch"`
	HTMLURL         string `json:"html_url"`
	StargazersCount int    `json:"stargazers_count"`
	Owner           struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// GetRepository fetches repository metadata, used by the archive sink.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*models.RepoInfo, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("%w: owner and repository must not be empty", ErrInvalidInput)
	}

	u := c.baseURL.ResolveReference(&url.URL{
		Path: fmt.Sprintf("/repos/%s/%s", owner, repo),
	})

	resp, err := c.do(ctx, u.String())
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		body := readErrorBody(resp.Body)
		c.log.Error("repository fetch failed",
			zap.String("repo", owner+"/"+repo),
			zap.Int("status_code", resp.StatusCode))
		return nil, classifyStatus(resp.StatusCode, body)
	}

	var payload repositoryPayload
	if err := decodeJSONAndClose(resp.Body, &payload); err != nil {
		return nil, err
	}
	c.monitor.Observe(resp.Header)

	info := &models.RepoInfo{
		Owner:         payload.Owner.Login,
		Name:          payload.Name,
		Description:   payload.Description,
		DefaultBranch: payload.DefaultBranch,
		URL:           payload.HTMLURL,
		Stars:         payload.StargazersCount,
	}
	if info.Owner == "" {
		info.Owner = owner
	}
	if info.Name == "" {
		info.Name = repo
	}
	return info, nil
}
