package seenstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blog-notifier/internal/resilience/retry"
	"blog-notifier/internal/usecase/seen"

	"github.com/google/go-github/v68/github"
)

// DefaultGistFilename is the file inside the gist holding the document.
const DefaultGistFilename = "blog-cache.json"

// GistConfig configures the gist backend.
type GistConfig struct {
	GistID   string
	Token    string
	Filename string
	// BaseURL overrides the GitHub API root (tests, GitHub Enterprise).
	BaseURL string
	Timeout time.Duration
}

// GistBackend keeps the document as one file of a GitHub Gist. Writes edit
// only that file and leave the rest of the gist alone.
type GistBackend struct {
	config      GistConfig
	client      *github.Client
	retryConfig retry.Config
}

var _ seen.Backend = (*GistBackend)(nil)

// NewGistBackend creates a GistBackend. An unparsable BaseURL is an error.
func NewGistBackend(cfg GistConfig) (*GistBackend, error) {
	if cfg.Filename == "" {
		cfg.Filename = DefaultGistFilename
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	client := github.NewClient(&http.Client{Timeout: cfg.Timeout})
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}
	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse gist base URL: %w", err)
		}
		client.BaseURL = base
	}

	return &GistBackend{
		config:      cfg,
		client:      client,
		retryConfig: retry.SeenStoreConfig(),
	}, nil
}

// Name implements seen.Backend.
func (g *GistBackend) Name() string { return "gist" }

// Get implements seen.Backend. A missing gist or a gist without the file is
// reported as seen.ErrDocumentNotFound. Files GitHub truncates inline are
// read in full from their raw URL.
func (g *GistBackend) Get(ctx context.Context) ([]byte, error) {
	var data []byte
	err := retry.WithBackoff(ctx, g.retryConfig, func() error {
		gist, _, err := g.client.Gists.Get(ctx, g.config.GistID)
		if err != nil {
			if statusCode(err) == http.StatusNotFound {
				return seen.ErrDocumentNotFound
			}
			return gistError("get gist", err)
		}

		file, ok := gist.Files[github.GistFilename(g.config.Filename)]
		if !ok {
			return seen.ErrDocumentNotFound
		}
		content := file.GetContent()
		if file.GetRawURL() != "" && file.GetSize() > len(content) {
			raw, err := g.fetchRaw(ctx, file.GetRawURL())
			if err != nil {
				return err
			}
			data = raw
			return nil
		}
		if content == "" {
			return seen.ErrDocumentNotFound
		}
		data = []byte(content)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put implements seen.Backend.
func (g *GistBackend) Put(ctx context.Context, data []byte) error {
	edit := &github.Gist{
		Files: map[github.GistFilename]github.GistFile{
			github.GistFilename(g.config.Filename): {Content: github.Ptr(string(data))},
		},
	}
	return retry.WithBackoff(ctx, g.retryConfig, func() error {
		if _, _, err := g.client.Gists.Edit(ctx, g.config.GistID, edit); err != nil {
			return gistError("edit gist", err)
		}
		return nil
	})
}

func (g *GistBackend) fetchRaw(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := g.client.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create raw gist request: %w", err)
	}
	var buf bytes.Buffer
	if _, err := g.client.Do(ctx, req, &buf); err != nil {
		return nil, gistError("fetch truncated gist file", err)
	}
	return buf.Bytes(), nil
}

// statusCode extracts the HTTP status from a go-github error, or 0.
func statusCode(err error) int {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return rateErr.Response.StatusCode
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return abuseErr.Response.StatusCode
	}
	return 0
}

// gistError turns API status errors into *retry.HTTPError so the retry policy
// can classify them; transport errors pass through wrapped.
func gistError(op string, err error) error {
	if code := statusCode(err); code != 0 {
		return &retry.HTTPError{
			StatusCode: code,
			Message:    fmt.Sprintf("%s: GitHub API error: %s", op, http.StatusText(code)),
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
