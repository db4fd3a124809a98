package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/inovacc/doubleblind/internal/model"
)

const (
	projectsPath     = "/project/"
	repositoriesPath = "/repositories/"
	linkedReposPath  = "/v1/github/repos"
	deployPath       = "/v1/github/deploy"
)

// ListProjects returns the projects owned by the signed-in user.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.do(ctx, http.MethodGet, projectsPath, nil, nil, &projects); err != nil {
		return nil, err
	}

	return projects, nil
}

// FetchPage returns one page of the user's repositories. The paged form of
// the endpoint answers with a bare array.
func (c *Client) FetchPage(ctx context.Context, index, size int) ([]model.Repository, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(index))
	params.Set("per_page", strconv.Itoa(size))

	var repos []model.Repository
	if err := c.do(ctx, http.MethodGet, repositoriesPath, params, nil, &repos); err != nil {
		return nil, err
	}

	return repos, nil
}

// searchResponse is the wrapper shape of the search form of /repositories/.
type searchResponse struct {
	Items []model.Repository `json:"items"`
}

// Search returns the repositories matching term. The search form of the
// endpoint wraps its results in {"items": [...]}.
func (c *Client) Search(ctx context.Context, term string) ([]model.Repository, error) {
	params := url.Values{}
	params.Set("search", term)

	var resp searchResponse
	if err := c.do(ctx, http.MethodGet, repositoriesPath, params, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Items == nil {
		return []model.Repository{}, nil
	}

	return resp.Items, nil
}

type createProjectRequest struct {
	Domain     string `json:"domain"`
	GithubName string `json:"github_name"`
}

// CreateProject registers a project named name for the repository owner/repo.
func (c *Client) CreateProject(ctx context.Context, name, repoIdentifier string) error {
	body := createProjectRequest{Domain: name, GithubName: repoIdentifier}
	return c.do(ctx, http.MethodPost, projectsPath, nil, body, nil)
}

// ListLinkedRepositories returns the external repositories linked to the session.
func (c *Client) ListLinkedRepositories(ctx context.Context) ([]model.Repository, error) {
	var repos []model.Repository
	if err := c.do(ctx, http.MethodGet, linkedReposPath, nil, nil, &repos); err != nil {
		return nil, err
	}

	return repos, nil
}

type deployRequest struct {
	Domain   string `json:"domain"`
	Branch   string `json:"branch"`
	GithubID int64  `json:"github_id"`
}

// Deploy serves branch of the repository on domain.
func (c *Client) Deploy(ctx context.Context, domain, branch string, repositoryID int64) error {
	body := deployRequest{Domain: domain, Branch: branch, GithubID: repositoryID}
	return c.do(ctx, http.MethodPost, deployPath, nil, body, nil)
}
