package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gh "github.com/google/go-github/v82/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovacc/doubleblind/internal/core"
)

func newTestSource(t *testing.T, mux *http.ServeMux, opts Options) *Source {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := gh.NewClient(srv.Client())
	u, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = u

	return NewSource(client, opts)
}

func TestFetchPage_MapsIndexToGitHubPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))
		_, _ = fmt.Fprint(w, `[{"id":5,"name":"paper","full_name":"alice/paper"},{"id":6,"name":"slides","full_name":"alice/slides"}]`)
	})

	s := newTestSource(t, mux, Options{})

	repos, err := s.FetchPage(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, int64(5), repos[0].ID)
	assert.Equal(t, "alice/paper", repos[0].FullName)
	assert.False(t, repos[0].Deployed)
	assert.Nil(t, repos[0].Domain)
}

func TestFetchPage_DrainsThroughFetcher(t *testing.T) {
	pages := map[string]string{
		"1": `[{"id":1,"name":"a","full_name":"o/a"},{"id":2,"name":"b","full_name":"o/b"}]`,
		"2": `[{"id":3,"name":"c","full_name":"o/c"}]`,
		"3": `[]`,
	}

	var calls int

	mux := http.NewServeMux()
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = fmt.Fprint(w, pages[r.URL.Query().Get("page")])
	})

	s := newTestSource(t, mux, Options{})

	repos, err := core.NewPaginatedFetcher(s, core.FetcherOptions{}).FetchAll(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, repos, 3)
	assert.Equal(t, 3, calls)
}

func TestSearch_UsesSearchAPI(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "paper user:alice", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		_, _ = fmt.Fprint(w, `{"total_count":1,"items":[{"id":9,"name":"paper","full_name":"alice/paper"}]}`)
	})

	s := newTestSource(t, mux, Options{SearchLimit: 10, Owner: "alice"})

	repos, err := s.Search(context.Background(), "paper")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "paper", repos[0].Name)
}

func TestSearch_EmptyTermListsRepositories(t *testing.T) {
	var searched bool

	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, _ *http.Request) {
		searched = true
		_, _ = fmt.Fprint(w, `{"items":[]}`)
	})
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		_, _ = fmt.Fprint(w, `[{"id":1,"name":"a","full_name":"o/a"}]`)
	})

	s := newTestSource(t, mux, Options{})

	repos, err := s.Search(context.Background(), "  ")
	require.NoError(t, err)
	assert.Len(t, repos, 1)
	assert.False(t, searched)
}

func TestSearch_ErrorIsWrapped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = fmt.Fprint(w, `{"message":"Validation Failed"}`)
	})

	s := newTestSource(t, mux, Options{})

	_, err := s.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to search repositories")

	var ghErr *gh.ErrorResponse
	assert.ErrorAs(t, err, &ghErr)
}

func TestNewSource_ClampsLimit(t *testing.T) {
	s := NewSource(gh.NewClient(nil), Options{SearchLimit: 500})
	assert.Equal(t, maxPerPage, s.limit)

	s = NewSource(gh.NewClient(nil), Options{})
	assert.Equal(t, DefaultSearchLimit, s.limit)
}

func TestLogin_ScopesSearchToUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"login":"alice","id":1}`)
	})
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "paper user:alice", r.URL.Query().Get("q"))
		_, _ = fmt.Fprint(w, `{"total_count":1,"items":[{"id":9,"name":"paper","full_name":"alice/paper"}]}`)
	})

	base := newTestSource(t, mux, Options{})

	login, err := Login(context.Background(), base.client)
	require.NoError(t, err)
	assert.Equal(t, "alice", login)

	s := NewSource(base.client, Options{Owner: login})

	repos, err := s.Search(context.Background(), "paper")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "alice/paper", repos[0].FullName)
}

func TestLogin_Failure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"message":"Bad credentials"}`)
	})

	s := newTestSource(t, mux, Options{})

	_, err := Login(context.Background(), s.client)
	assert.ErrorContains(t, err, "failed to get authenticated user")
}
