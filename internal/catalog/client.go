package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Config holds catalog API connection settings.
type Config struct {
	BaseURL string // e.g. https://catalog.internal.example.com
	Token   string // Bearer token, empty for anonymous access
}

// Client fetches entities from the catalog's REST API.
type Client struct {
	HTTPClient *http.Client
	Config     Config
}

// NewClient returns a client with the given config. The default HTTP client
// is used; retry and timeout policy is the caller's concern.
func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &Client{Config: cfg, HTTPClient: http.DefaultClient}
}

type entityPage struct {
	Items    []Entity `json:"items"`
	PageInfo struct {
		NextCursor string `json:"nextCursor"`
	} `json:"pageInfo"`
}

// FetchEntities retrieves every entity matching filter (catalog filter
// syntax, e.g. "kind=api,spec.type=multisig-deployment"; empty fetches all),
// following pagination cursors until exhausted.
func (c *Client) FetchEntities(ctx context.Context, filter string) ([]Entity, error) {
	var all []Entity
	cursor := ""
	for {
		page, err := c.fetchPage(ctx, filter, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if page.PageInfo.NextCursor == "" {
			return all, nil
		}
		cursor = page.PageInfo.NextCursor
	}
}

func (c *Client) fetchPage(ctx context.Context, filter, cursor string) (*entityPage, error) {
	q := url.Values{}
	if filter != "" {
		q.Set("filter", filter)
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	u := c.Config.BaseURL + "/api/catalog/entities/by-query"
	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if c.Config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Config.Token)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog query %s: %s", resp.Status, string(body))
	}

	var page entityPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode catalog page: %w", err)
	}
	return &page, nil
}
