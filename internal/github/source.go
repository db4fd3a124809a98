// Package github reads the signed-in user's repositories straight from the
// GitHub REST API. It is an alternative page and query source to the
// doubleblind API for users who have not linked their account yet.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v82/github"
	"golang.org/x/oauth2"

	"github.com/inovacc/doubleblind/internal/model"
)

// DefaultSearchLimit caps search results when Options.SearchLimit is zero.
const DefaultSearchLimit = 30

// maxPerPage is the largest page GitHub will serve.
const maxPerPage = 100

// NewClient creates an authenticated GitHub client using the provided token.
func NewClient(ctx context.Context, token string) *gh.Client {
	return gh.NewClient(NewHTTPClient(ctx, token))
}

// NewHTTPClient creates an oauth2 HTTP client carrying token.
func NewHTTPClient(ctx context.Context, token string) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return oauth2.NewClient(ctx, ts)
}

// Login returns the login of the user the client is authenticated as.
func Login(ctx context.Context, client *gh.Client) (string, error) {
	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", err)
	}

	return user.GetLogin(), nil
}

// Options configures a Source.
type Options struct {
	// SearchLimit caps the number of repositories a search returns
	SearchLimit int

	// Owner restricts searches to repositories of this user (optional)
	Owner string

	Logger *slog.Logger
}

// Source adapts the GitHub API to the page and query capabilities.
type Source struct {
	client *gh.Client
	limit  int
	owner  string
	logger *slog.Logger
}

// NewSource wraps client.
func NewSource(client *gh.Client, opts Options) *Source {
	limit := opts.SearchLimit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Source{
		client: client,
		limit:  min(limit, maxPerPage),
		owner:  opts.Owner,
		logger: logger,
	}
}

// FetchPage returns page index (0-based) of the authenticated user's
// repositories. GitHub pages are 1-based.
func (s *Source) FetchPage(ctx context.Context, index, size int) ([]model.Repository, error) {
	if index < 0 {
		return nil, fmt.Errorf("page index must not be negative, got %d", index)
	}

	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		Sort:        "full_name",
		ListOptions: gh.ListOptions{Page: index + 1, PerPage: min(size, maxPerPage)},
	}

	s.logger.Debug("github list repositories", slog.Int("page", opts.Page), slog.Int("per_page", opts.PerPage))

	repos, _, err := s.client.Repositories.ListByAuthenticatedUser(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	return toRepositories(repos), nil
}

// Search returns at most SearchLimit repositories matching term. GitHub
// rejects empty search queries, so the empty term lists the user's
// repositories instead.
func (s *Source) Search(ctx context.Context, term string) ([]model.Repository, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.FetchPage(ctx, 0, s.limit)
	}

	query := term
	if s.owner != "" {
		query = fmt.Sprintf("%s user:%s", term, s.owner)
	}

	s.logger.Debug("github search repositories", slog.String("query", query))

	result, _, err := s.client.Search.Repositories(ctx, query, &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: s.limit},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}

	return toRepositories(result.Repositories), nil
}

// toRepositories maps GitHub repositories to undeployed records.
func toRepositories(repos []*gh.Repository) []model.Repository {
	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		if r == nil {
			continue
		}

		out = append(out, model.Repository{
			ID:       r.GetID(),
			Name:     r.GetName(),
			FullName: r.GetFullName(),
		})
	}

	return out
}
