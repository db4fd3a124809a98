package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, opts...)
	require.NoError(t, err)

	return c
}

func TestNew_NormalisesBaseURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: DefaultBaseURL},
		{name: "no scheme", in: "api.example.com", want: "http://api.example.com"},
		{name: "trailing slash", in: "https://api.example.com/", want: "https://api.example.com"},
		{name: "whitespace", in: "  https://api.example.com  ", want: "https://api.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.BaseURL())
		})
	}
}

func TestFetchPage_BareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/repositories/", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Empty(t, r.URL.Query().Get("search"))

		_, _ = w.Write([]byte(`[{"id":3,"name":"nix-config","full_name":"dd-ix/nix-config","deployed":false},
			{"id":4,"name":"bahn.bingo","full_name":"tanneberger/bahn.bingo","deployed":true,"domain":"bingo","branch":"main"}]`))
	})

	repos, err := c.FetchPage(context.Background(), 2, 100)
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, int64(3), repos[0].ID)
	assert.Equal(t, "tanneberger/bahn.bingo", repos[1].FullName)
	require.NotNil(t, repos[1].Domain)
	assert.Equal(t, "bingo", *repos[1].Domain)
}

func TestSearch_WrapperObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repositories/", r.URL.Path)
		assert.Equal(t, "bahn", r.URL.Query().Get("search"))
		assert.Empty(t, r.URL.Query().Get("page"))

		_, _ = w.Write([]byte(`{"items":[{"id":4,"name":"bahn.bingo","full_name":"tanneberger/bahn.bingo","deployed":false}]}`))
	})

	repos, err := c.Search(context.Background(), "bahn")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "bahn.bingo", repos[0].Name)
}

func TestSearch_EmptyTermIsSent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, r.URL.Query().Has("search"))
		_, _ = w.Write([]byte(`{}`))
	})

	repos, err := c.Search(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, repos)
	assert.Empty(t, repos)
}

func TestCreateProject_Body(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/project/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"domain": "bahnbingo", "github_name": "tanneberger/bahn.bingo"}, body)

		w.WriteHeader(http.StatusOK)
	})

	err := c.CreateProject(context.Background(), "bahnbingo", "tanneberger/bahn.bingo")
	assert.NoError(t, err)
}

func TestDeploy_Body(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/github/deploy", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bingo", body["domain"])
		assert.Equal(t, "main", body["branch"])
		assert.Equal(t, float64(42), body["github_id"])
	})

	assert.NoError(t, c.Deploy(context.Background(), "bingo", "main", 42))
}

func TestListProjectsAndLinked(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/project/":
			_, _ = w.Write([]byte(`[{"id":"UUID-1","repo":"https://github.com/tanneberger/test-1","owner":"UID-1","name":"Troll1","last_update":"2023-08-24T20:21Z "}]`))
		case "/v1/github/repos":
			_, _ = w.Write([]byte(`[{"id":5,"name":"datacare","full_name":"tlm-solutions/datacare","deployed":false}]`))
		default:
			http.NotFound(w, r)
		}
	})

	projects, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Troll1", projects[0].Name)
	assert.Equal(t, 2023, projects[0].LastUpdate.Year())

	linked, err := c.ListLinkedRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "tlm-solutions/datacare", linked[0].FullName)
}

func TestCredentialsAttached(t *testing.T) {
	t.Run("session cookie", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			require.NoError(t, err)
			assert.Equal(t, "abc-123", cookie.Value)
			_, _ = w.Write([]byte(`[]`))
		}, WithSessionCookie("abc-123"))

		_, err := c.ListProjects(context.Background())
		assert.NoError(t, err)
	})

	t.Run("bearer token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[]`))
		}, WithBearerToken("tok"))

		_, err := c.ListProjects(context.Background())
		assert.NoError(t, err)
	})
}

func TestRequestIDHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-1", r.Header.Get(RequestIDHeader))
	})

	ctx := ContextWithRequestID(context.Background(), "req-1")
	assert.NoError(t, c.Deploy(ctx, "d", "b", 1))
}

func TestErrors(t *testing.T) {
	t.Run("remote rejection with json message", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"project already exists"}`))
		})

		err := c.CreateProject(context.Background(), "bahnbingo", "a/b")

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "project already exists", apiErr.Message)
		assert.True(t, IsRejection(err))
		assert.False(t, IsTransport(err))
	})

	t.Run("remote rejection with text body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := c.ListProjects(context.Background())

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "boom", apiErr.Message)
		assert.False(t, apiErr.Unauthorized())
	})

	t.Run("redirect to login is not followed", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/auth/login/github", http.StatusFound)
		})

		_, err := c.ListProjects(context.Background())

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.True(t, apiErr.Unauthorized())
	})

	t.Run("redirect not followed with custom http client", func(t *testing.T) {
		var followed atomic.Int32

		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/login/github" {
				followed.Add(1)
				_, _ = w.Write([]byte(`[]`))

				return
			}

			http.Redirect(w, r, "/auth/login/github", http.StatusFound)
		}, WithHTTPClient(&http.Client{}), WithTimeout(3*time.Second))

		assert.Equal(t, 3*time.Second, c.httpClient.Timeout)

		_, err := c.ListProjects(context.Background())

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.True(t, apiErr.Unauthorized())
		assert.Zero(t, followed.Load())
	})

	t.Run("custom http client settings are kept", func(t *testing.T) {
		custom := &http.Client{
			Timeout:       time.Minute,
			CheckRedirect: func(*http.Request, []*http.Request) error { return nil },
		}

		c, err := New("http://api.example.com", WithHTTPClient(custom), WithTimeout(time.Second))
		require.NoError(t, err)

		assert.Equal(t, time.Minute, c.httpClient.Timeout)
		assert.NotNil(t, c.httpClient.CheckRedirect)
		assert.NotSame(t, custom, c.httpClient)
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		c, err := New(srv.URL)
		require.NoError(t, err)

		_, err = c.FetchPage(context.Background(), 0, 10)
		assert.True(t, IsTransport(err))
		assert.False(t, IsRejection(err))
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items":`))
		})

		_, err := c.Search(context.Background(), "x")
		assert.Error(t, err)
		assert.False(t, IsTransport(err))
	})
}

func TestRateLimit(t *testing.T) {
	var calls atomic.Int32

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}, WithRateLimit(1, 1))

	_, err := c.ListProjects(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.ListProjects(ctx)
	assert.True(t, IsTransport(err), "second call should be refused by the limiter, got %v", err)
	assert.Equal(t, int32(1), calls.Load())
}
