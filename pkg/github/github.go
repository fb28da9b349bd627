// Package github uploads SARIF reports to GitHub code scanning.
// It wraps go-github so the rest of the task depends only on a small interface
// and handles OAuth2 token authentication and GitHub Enterprise Server URLs.
package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

type (
	Client        = github.Client
	Response      = github.Response
	SarifAnalysis = github.SarifAnalysis
	SarifID       = github.SarifID
)

const defaultAPIURL = "https://api.github.com"

// New creates a GitHub API client.
// An empty token gives an unauthenticated client, which can't upload SARIF
// but is still usable for read-only calls. If apiURL points to a GitHub
// Enterprise Server, the client is configured for it.
func New(ctx context.Context, token, apiURL string) (*Client, error) {
	client := github.NewClient(getHTTPClient(ctx, token))
	if apiURL == "" || apiURL == defaultAPIURL {
		return client, nil
	}
	c, err := client.WithEnterpriseURLs(apiURL, apiURL)
	if err != nil {
		return nil, fmt.Errorf("configure GitHub Enterprise Server URLs: %w", err)
	}
	return c, nil
}

func getHTTPClient(ctx context.Context, token string) *http.Client {
	if token == "" {
		return http.DefaultClient
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	))
}

// Ptr returns a pointer to the provided value.
func Ptr[T any](v T) *T {
	return github.Ptr(v)
}
