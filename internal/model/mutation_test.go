package model

import (
	"errors"
	"testing"
)

func TestCreateProject_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       CreateProject
		wantField string
	}{
		{name: "valid", req: CreateProject{Name: "bahnbingo", RepoIdentifier: "tanneberger/bahn.bingo"}},
		{name: "exactly six", req: CreateProject{Name: "sixsix", RepoIdentifier: "a/b"}},
		{name: "empty name", req: CreateProject{Name: "  ", RepoIdentifier: "a/b"}, wantField: "name"},
		{name: "short name", req: CreateProject{Name: "troll", RepoIdentifier: "a/b"}, wantField: "name"},
		{name: "repo without owner", req: CreateProject{Name: "project", RepoIdentifier: "repo"}, wantField: "repo"},
		{name: "repo with extra segment", req: CreateProject{Name: "project", RepoIdentifier: "a/b/c"}, wantField: "repo"},
		{name: "repo url", req: CreateProject{Name: "project", RepoIdentifier: "https://github.com/a/b"}, wantField: "repo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			checkValidation(t, err, tt.wantField)
		})
	}
}

func TestDeployRepository_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       DeployRepository
		wantField string
	}{
		{name: "valid", req: DeployRepository{Domain: "bingo", Branch: "main", RepositoryID: 4}},
		{name: "empty domain", req: DeployRepository{Branch: "main"}, wantField: "domain"},
		{name: "empty branch", req: DeployRepository{Domain: "bingo", Branch: " "}, wantField: "branch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkValidation(t, tt.req.Validate(), tt.wantField)
		})
	}
}

func TestMutationKinds(t *testing.T) {
	var reqs = []MutationRequest{CreateProject{}, DeployRepository{}}

	if reqs[0].Kind() != MutationCreateProject {
		t.Errorf("CreateProject.Kind() = %q", reqs[0].Kind())
	}

	if reqs[1].Kind() != MutationDeployRepository {
		t.Errorf("DeployRepository.Kind() = %q", reqs[1].Kind())
	}
}

func checkValidation(t *testing.T, err error, wantField string) {
	t.Helper()

	if wantField == "" {
		if err != nil {
			t.Errorf("Validate() error = %v, want nil", err)
		}

		return
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Validate() error = %v, want *ValidationError", err)
	}

	if vErr.Field != wantField {
		t.Errorf("ValidationError.Field = %q, want %q", vErr.Field, wantField)
	}
}
