package model

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MutationKind identifies the write operation a MutationRequest performs.
type MutationKind string

const (
	MutationCreateProject    MutationKind = "create-project"
	MutationDeployRepository MutationKind = "deploy-repository"
)

// MinProjectNameLength is the shortest project name the server accepts.
const MinProjectNameLength = 6

// MutationRequest is one of CreateProject or DeployRepository.
type MutationRequest interface {
	Kind() MutationKind

	// Validate runs the pre-submit checks. Callers run it before submitting.
	Validate() error

	isMutation()
}

// CreateProject registers a new project for a repository.
type CreateProject struct {
	Name           string
	RepoIdentifier string // owner/repo
}

func (CreateProject) Kind() MutationKind { return MutationCreateProject }
func (CreateProject) isMutation()        {}

var repoIdentifierPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

func (c CreateProject) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	if utf8.RuneCountInString(name) < MinProjectNameLength {
		return &ValidationError{Field: "name", Reason: "must be at least 6 characters"}
	}

	if !repoIdentifierPattern.MatchString(c.RepoIdentifier) {
		return &ValidationError{Field: "repo", Reason: "must look like <owner>/<repo>"}
	}

	return nil
}

// DeployRepository serves a repository branch on a subdomain.
type DeployRepository struct {
	Domain       string
	Branch       string
	RepositoryID int64
}

func (DeployRepository) Kind() MutationKind { return MutationDeployRepository }
func (DeployRepository) isMutation()        {}

func (d DeployRepository) Validate() error {
	if strings.TrimSpace(d.Domain) == "" {
		return &ValidationError{Field: "domain", Reason: "must not be empty"}
	}

	if strings.TrimSpace(d.Branch) == "" {
		return &ValidationError{Field: "branch", Reason: "must not be empty"}
	}

	return nil
}
