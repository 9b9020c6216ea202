package seenstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"blog-notifier/internal/resilience/retry"
	"blog-notifier/internal/usecase/seen"

	"github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGist(t *testing.T, handler http.HandlerFunc) (*GistBackend, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	backend, err := NewGistBackend(GistConfig{GistID: "abc123", Token: "secret", BaseURL: server.URL})
	require.NoError(t, err)
	backend.retryConfig = fastRetry()
	return backend, server
}

func TestGistBackend_Get(t *testing.T) {
	backend, _ := newTestGist(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/gists/abc123", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"files": map[string]any{
				"blog-cache.json": map[string]any{"content": sampleDocument},
			},
		})
	})

	got, err := backend.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleDocument, string(got))
}

func TestGistBackend_GetNotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "TC-1: gist does not exist",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "TC-2: gist has no cache file",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"files":{"other.md":{"content":"hello"}}}`)
			},
		},
		{
			name: "TC-3: cache file is empty",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"files":{"blog-cache.json":{"content":""}}}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, _ := newTestGist(t, tt.handler)
			_, err := backend.Get(context.Background())
			assert.ErrorIs(t, err, seen.ErrDocumentNotFound)
		})
	}
}

func TestGistBackend_GetTruncatedFollowsRawURL(t *testing.T) {
	var serverURL string
	backend, server := newTestGist(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gists/abc123":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"files": map[string]any{
					"blog-cache.json": map[string]any{
						"content":   sampleDocument[:10],
						"size":      len(sampleDocument),
						"truncated": true,
						"raw_url":   serverURL + "/raw/blog-cache.json",
					},
				},
			})
		case "/raw/blog-cache.json":
			_, _ = io.WriteString(w, sampleDocument)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	serverURL = server.URL

	got, err := backend.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleDocument, string(got))
}

func TestGistBackend_GetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	backend, _ := newTestGist(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"files":{"blog-cache.json":{"content":"{}"}}}`)
	})

	got, err := backend.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))
	assert.Equal(t, int32(2), calls.Load())
}

func TestGistBackend_GetUnauthorized(t *testing.T) {
	var calls atomic.Int32
	backend, _ := newTestGist(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := backend.Get(context.Background())
	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGistBackend_Put(t *testing.T) {
	var body github.Gist
	backend, _ := newTestGist(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/gists/abc123", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{}`)
	})

	require.NoError(t, backend.Put(context.Background(), []byte(sampleDocument)))
	require.Contains(t, body.Files, github.GistFilename("blog-cache.json"))
	file := body.Files["blog-cache.json"]
	assert.Equal(t, sampleDocument, file.GetContent())
}

func TestGistBackend_PutNotFoundIsAnError(t *testing.T) {
	backend, _ := newTestGist(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := backend.Put(context.Background(), []byte(sampleDocument))
	require.Error(t, err)
	assert.NotErrorIs(t, err, seen.ErrDocumentNotFound)
}

func TestGistBackend_SmallFileIsNotFetchedRaw(t *testing.T) {
	var rawCalls atomic.Int32
	backend, _ := newTestGist(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/raw/blog-cache.json" {
			rawCalls.Add(1)
			_, _ = io.WriteString(w, "unexpected")
			return
		}
		_, _ = io.WriteString(w, `{"files":{"blog-cache.json":{"content":"{}","size":2,"raw_url":"`+
			"http://"+r.Host+`/raw/blog-cache.json"}}}`)
	})

	got, err := backend.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))
	assert.Zero(t, rawCalls.Load())
}

func TestNewGistBackend_Defaults(t *testing.T) {
	backend, err := NewGistBackend(GistConfig{GistID: "abc", Token: "t"})
	require.NoError(t, err)
	assert.Equal(t, DefaultGistFilename, backend.config.Filename)
	assert.Equal(t, "https://api.github.com/", backend.client.BaseURL.String())
}
