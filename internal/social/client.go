package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/azursoldev/likes-io/internal/catalog"
)

// Typed failures so callers can tell "this account does not exist" from "the
// lookup service is down". Outages are never fatal to checkout; a missing
// profile always is.
var (
	ErrNotFound    = errors.New("profile not found")
	ErrUnavailable = errors.New("profile service unavailable")
)

type Profile struct {
	Username       string `json:"username"`
	FullName       string `json:"full_name,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	FollowerCount  int    `json:"follower_count,omitempty"`
	IsPrivate      bool   `json:"is_private,omitempty"`
}

type Post struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Caption   string `json:"caption,omitempty"`
}

type PostPage struct {
	Posts      []Post `json:"posts"`
	NextCursor string `json:"next_cursor,omitempty"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 8 * time.Second},
	}
}

func (c *Client) Profile(ctx context.Context, p catalog.Platform, username string) (*Profile, error) {
	u := fmt.Sprintf("%s/api/social/%s/profile?username=%s", c.BaseURL, p, url.QueryEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: upstream %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, ErrNotFound
	}

	// Upstream wraps the profile inconsistently ({"profile": {...}} or the
	// bare object); accept both shapes explicitly.
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	var wrapped struct {
		Profile *Profile `json:"profile"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Profile != nil && wrapped.Profile.Username != "" {
		return wrapped.Profile, nil
	}
	var bare Profile
	if err := json.Unmarshal(raw, &bare); err == nil && bare.Username != "" {
		return &bare, nil
	}
	return nil, ErrNotFound
}

func (c *Client) Posts(ctx context.Context, p catalog.Platform, username, cursor string) (*PostPage, error) {
	q := url.Values{"username": {username}}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	u := fmt.Sprintf("%s/api/%s/posts?%s", c.BaseURL, p, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: upstream %d", ErrUnavailable, resp.StatusCode)
	}

	var page PostPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return &page, nil
}
