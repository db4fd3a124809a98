package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRepository_Validate(t *testing.T) {
	tests := []struct {
		name    string
		repo    Repository
		wantErr bool
	}{
		{
			name: "undeployed without domain",
			repo: Repository{ID: 1, Name: "repo", FullName: "user/repo"},
		},
		{
			name: "deployed with domain and branch",
			repo: Repository{ID: 2, Deployed: true, Domain: strPtr("site"), Branch: strPtr("main")},
		},
		{
			name:    "deployed without domain",
			repo:    Repository{ID: 3, Deployed: true, Branch: strPtr("main")},
			wantErr: true,
		},
		{
			name:    "deployed without branch",
			repo:    Repository{ID: 4, Deployed: true, Domain: strPtr("site")},
			wantErr: true,
		},
		{
			name:    "deployed without either",
			repo:    Repository{ID: 5, Deployed: true},
			wantErr: true,
		},
		{
			name:    "undeployed with domain",
			repo:    Repository{ID: 6, Domain: strPtr("site")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.repo.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var recErr *InvalidRecordError
			require.True(t, errors.As(err, &recErr), "want *InvalidRecordError, got %T", err)
			assert.Equal(t, tt.repo.ID, recErr.ID)
		})
	}
}

func TestRepository_JSONAbsentDomain(t *testing.T) {
	var repo Repository

	err := json.Unmarshal([]byte(`{"id":9007199254740993,"name":"repo","full_name":"user/repo","deployed":true,"branch":"main"}`), &repo)
	require.NoError(t, err)

	assert.Equal(t, int64(9007199254740993), repo.ID)
	assert.Nil(t, repo.Domain)
	assert.Error(t, repo.Validate())
}

func TestRepository_OwnerAndSiteURL(t *testing.T) {
	repo := Repository{FullName: "tanneberger/bahn.bingo", Deployed: true, Domain: strPtr("bingo"), Branch: strPtr("main")}

	assert.Equal(t, "tanneberger", repo.Owner())
	assert.Equal(t, "https://bingo.science.tanneberger.me", repo.SiteURL("science.tanneberger.me"))
	assert.Empty(t, Repository{FullName: "noslash"}.Owner())
	assert.Empty(t, Repository{}.SiteURL("science.tanneberger.me"))
}

func TestValidateRepositories(t *testing.T) {
	good := Repository{ID: 1}
	bad := Repository{ID: 2, Deployed: true}

	assert.NoError(t, ValidateRepositories(nil))
	assert.NoError(t, ValidateRepositories([]Repository{good}))
	assert.Error(t, ValidateRepositories([]Repository{good, bad}))
}

func TestProject_LastUpdateFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "minute precision with trailing space",
			input: `"2023-08-24T20:21Z "`,
			want:  time.Date(2023, 8, 24, 20, 21, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339",
			input: `"2013-12-24T18:21:05Z"`,
			want:  time.Date(2013, 12, 24, 18, 21, 5, 0, time.UTC),
		},
		{
			name:  "offset",
			input: `"2023-10-24T22:21:00+02:00"`,
			want:  time.Date(2023, 10, 24, 20, 21, 0, 0, time.UTC),
		},
		{
			name:  "null",
			input: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Project

			err := json.Unmarshal([]byte(`{"id":"UUID-1","last_update":`+tt.input+`}`), &p)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(p.LastUpdate.Time), "got %v, want %v", p.LastUpdate.Time, tt.want)
		})
	}
}

func TestProject_InvalidTimestamp(t *testing.T) {
	var p Project

	err := json.Unmarshal([]byte(`{"last_update":"yesterday"}`), &p)
	assert.Error(t, err)
}
