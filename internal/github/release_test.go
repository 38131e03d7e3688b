package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(context.Background(), "")
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.API.BaseURL = base
	return client
}

func TestLatestReleaseAssets(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/tool/releases/latest", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"tag_name": "v1.2.0",
			"assets": [
				{"name": "tool-linux.tar.gz", "size": 1048576, "browser_download_url": "https://example.com/tool-linux.tar.gz"},
				{"name": "tool-windows.zip", "size": 2048, "browser_download_url": "https://example.com/tool-windows.zip"}
			]
		}`)
	})

	client := newTestClient(t, handler)
	assets, err := client.LatestRelease(context.Background(), "acme", "tool")
	require.NoError(t, err)

	require.Len(t, assets, 2)
	assert.Equal(t, "tool-linux.tar.gz", assets[0].Name)
	assert.Equal(t, "https://example.com/tool-linux.tar.gz", assets[0].DownloadURL)
	assert.Equal(t, int64(1048576), assets[0].Size)
	assert.Equal(t, "tool-windows.zip", assets[1].Name)
}

func TestLatestReleaseNoAssets(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"tag_name": "v0.1.0", "assets": []}`)
	})

	client := newTestClient(t, handler)
	assets, err := client.LatestRelease(context.Background(), "acme", "tool")
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestLatestReleaseNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})

	client := newTestClient(t, handler)
	_, err := client.LatestRelease(context.Background(), "acme", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "acme/missing")
}

func TestLatestReleaseAuthFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "Bad credentials"}`)
	})

	client := newTestClient(t, handler)
	_, err := client.LatestRelease(context.Background(), "acme", "tool")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
}

func TestLatestReleaseRateLimited(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", fmt.Sprint(time.Now().Add(time.Hour).Unix()))
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
	})

	client := newTestClient(t, handler)
	_, err := client.LatestRelease(context.Background(), "acme", "tool")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestLatestReleaseNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	srv.Close() // connection refused from here on

	client := NewClient(context.Background(), "")
	client.API.BaseURL = base

	_, err = client.LatestRelease(context.Background(), "acme", "tool")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrAuth)
	assert.NotErrorIs(t, err, ErrRateLimited)
}
