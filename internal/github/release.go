package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v68/github"
)

// Sentinel errors for release resolution. The scheduler records them against
// the repository and moves on; nothing here retries.
var (
	ErrNotFound    = errors.New("repository or release not found")
	ErrAuth        = errors.New("authentication failed")
	ErrRateLimited = errors.New("rate limited by the GitHub API")
)

// Asset is one downloadable file attached to the latest release.
type Asset struct {
	Name        string
	DownloadURL string
	Size        int64
}

// LatestRelease fetches the asset list of the latest published release of
// owner/repo. Draft and pre-release versions are never returned by the
// latest-release endpoint.
func (c *Client) LatestRelease(ctx context.Context, owner, repo string) ([]Asset, error) {
	release, _, err := c.API.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return nil, classify(owner, repo, err)
	}
	assets := make([]Asset, 0, len(release.Assets))
	for _, asset := range release.Assets {
		assets = append(assets, Asset{
			Name:        asset.GetName(),
			DownloadURL: asset.GetBrowserDownloadURL(),
			Size:        int64(asset.GetSize()),
		})
	}
	return assets, nil
}

func classify(owner, repo string, err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%s/%s: %w", owner, repo, ErrRateLimited)
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%s/%s: %w", owner, repo, ErrRateLimited)
	}
	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s/%s: %w", owner, repo, ErrNotFound)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s/%s: %w", owner, repo, ErrAuth)
		}
	}
	return fmt.Errorf("%s/%s: fetching latest release: %w", owner, repo, err)
}
