package ghapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultBaseURL = "https://api.github.com"

const perPage = 100

// Client is a minimal GitHub REST client for changed-file enumeration.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
}

// NewClient returns a client authenticating with token; an empty token makes
// unauthenticated requests.
func NewClient(token string) *Client {
	return &Client{HTTPClient: http.DefaultClient, BaseURL: defaultBaseURL, Token: token}
}

type pullFile struct {
	Filename string `json:"filename"`
}

// ChangedFiles lists the repository-relative paths touched by a pull
// request, following pagination. An empty list is a valid result.
func (c *Client) ChangedFiles(ctx context.Context, owner, repo string, number int) ([]string, error) {
	base := strings.TrimSuffix(c.BaseURL, "/")
	files := make([]string, 0)
	for page := 1; ; page++ {
		u := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/files?per_page=%d&page=%d", base, owner, repo, number, perPage, page)
		batch, err := c.fetchFilePage(ctx, u)
		if err != nil {
			return nil, err
		}
		for _, f := range batch {
			files = append(files, f.Filename)
		}
		if len(batch) < perPage {
			return files, nil
		}
	}
}

func (c *Client) fetchFilePage(ctx context.Context, url string) ([]pullFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list pull request files %s: %s", resp.Status, string(body))
	}
	var batch []pullFile
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("decode pull request files: %w", err)
	}
	return batch, nil
}
