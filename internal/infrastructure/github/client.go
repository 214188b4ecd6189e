// Package github proxies the public repository listing of a GitHub user.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/oksasatya/devconnector/pkg/helpers"
)

// ErrNotFound covers every non-success answer from upstream, including
// transport failures.
var ErrNotFound = errors.New("no github profile found")

const maxBody = 1 << 20

type Client struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	CacheTTL     time.Duration

	http   *http.Client
	cache  redis.Cmdable
	logger *logrus.Logger
	group  singleflight.Group
}

// NewClient builds a client. rdb may be nil to disable caching.
func NewClient(baseURL, clientID, clientSecret string, timeout, cacheTTL time.Duration, rdb *redis.Client, logger *logrus.Logger) *Client {
	c := &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		CacheTTL:     cacheTTL,
		http:         &http.Client{Timeout: timeout},
		logger:       logger,
	}
	if rdb != nil {
		c.cache = rdb
	}
	return c
}

func cacheKey(username string) string {
	return "github:repos:" + strings.ToLower(username)
}

// Repos returns the user's five oldest repositories as GitHub sent them.
func (c *Client) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrNotFound
	}

	if c.cache != nil {
		var cached json.RawMessage
		ok, err := helpers.RedisGetJSON(ctx, c.cache, cacheKey(username), &cached)
		if err != nil {
			helpers.LogWarn(c.logger, "github cache read failed", err, logrus.Fields{"username": username})
		}
		if ok {
			return cached, nil
		}
	}

	v, err, _ := c.group.Do(strings.ToLower(username), func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), username)
	})
	if err != nil {
		return nil, err
	}
	body := v.(json.RawMessage)

	if c.cache != nil && c.CacheTTL > 0 {
		if err := helpers.RedisSetJSON(ctx, c.cache, cacheKey(username), body, c.CacheTTL); err != nil {
			helpers.LogWarn(c.logger, "github cache write failed", err, logrus.Fields{"username": username})
		}
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, username string) (json.RawMessage, error) {
	u := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created&direction=asc", c.BaseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "devconnector")
	if c.ClientID != "" && c.ClientSecret != "" {
		req.SetBasicAuth(c.ClientID, c.ClientSecret)
	}

	res, err := c.http.Do(req)
	if err != nil {
		helpers.LogWarn(c.logger, "github request failed", err, logrus.Fields{"username": username})
		return nil, ErrNotFound
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, ErrNotFound
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil || !json.Valid(b) {
		return nil, ErrNotFound
	}
	return json.RawMessage(b), nil
}
