package github

import (
	"context"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub API client used for release metadata.
type Client struct {
	API *gh.Client
}

// NewClient returns a client authenticated with token, or an anonymous one
// when token is empty. Anonymous requests work for public repositories but
// are subject to much lower rate limits.
func NewClient(ctx context.Context, token string) *Client {
	if token == "" {
		return &Client{API: gh.NewClient(nil)}
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return &Client{API: gh.NewClient(tc)}
}
