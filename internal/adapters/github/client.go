package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBase = "https://api.github.com"

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

type Client struct {
	http    *http.Client
	baseURL string
}

func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBase,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// LatestRelease: GET /repos/{owner}/{repo}/releases/latest. Un repo sin
// releases responde 404 → ErrNoRelease.
func (c *Client) LatestRelease(ctx context.Context, repo string) (Release, error) {
	owner, name, ok := SplitRepo(repo)
	if !ok {
		return Release{}, fmt.Errorf("%w: %q", ErrBadRepo, repo)
	}
	var rel Release
	if err := c.doJSON(ctx, fmt.Sprintf("/repos/%s/%s/releases/latest", owner, name), &rel); err != nil {
		return Release{}, err
	}
	if rel.TagName == "" {
		return Release{}, ErrNoRelease
	}
	return rel, nil
}

func (c *Client) doJSON(ctx context.Context, path string, out any) error {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "simplekick-version-check")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("github http: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return ErrNoRelease
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// SplitRepo: "owner/repo" → (owner, repo, true).
func SplitRepo(repo string) (string, string, bool) {
	value := strings.TrimSpace(repo)
	owner, name, found := strings.Cut(value, "/")
	if !found || owner == "" || name == "" {
		return "", "", false
	}
	return owner, name, true
}
