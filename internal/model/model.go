package model

import (
	"fmt"
	"strings"
)

// Repository is a snapshot of a remote repository as reported by the API.
type Repository struct {
	// ID is the opaque remote identifier
	ID int64 `json:"id"`

	// Name is the short repository name
	Name string `json:"name"`

	// FullName is the qualified "owner/name" identifier
	FullName string `json:"full_name"`

	// Deployed reports whether the repository is served on a domain
	Deployed bool `json:"deployed"`

	// Domain is the subdomain the repository is served on (deployed only)
	Domain *string `json:"domain,omitempty"`

	// Branch is the deployed branch (deployed only)
	Branch *string `json:"branch,omitempty"`
}

// Validate checks the deployment invariant: domain and branch are both set
// when the repository is deployed and both absent when it is not.
func (r Repository) Validate() error {
	hasDomain := r.Domain != nil
	hasBranch := r.Branch != nil

	switch {
	case r.Deployed && !hasDomain:
		return &InvalidRecordError{ID: r.ID, Reason: "deployed without domain"}
	case r.Deployed && !hasBranch:
		return &InvalidRecordError{ID: r.ID, Reason: "deployed without branch"}
	case !r.Deployed && (hasDomain || hasBranch):
		return &InvalidRecordError{ID: r.ID, Reason: "domain or branch set on undeployed repository"}
	}

	return nil
}

// Owner returns the owner part of FullName.
func (r Repository) Owner() string {
	owner, _, ok := strings.Cut(r.FullName, "/")
	if !ok {
		return ""
	}

	return owner
}

// SiteURL returns the public URL of a deployed repository, or "" when it is
// not deployed.
func (r Repository) SiteURL(rootDomain string) string {
	if !r.Deployed || r.Domain == nil {
		return ""
	}

	return SiteURL(*r.Domain, rootDomain)
}

// SiteURL builds the public URL a subdomain is served on.
func SiteURL(subdomain, rootDomain string) string {
	return fmt.Sprintf("https://%s.%s", subdomain, rootDomain)
}

// Page is one slice of a paged repository collection.
type Page struct {
	// Index is the page index the slice was requested with
	Index int

	// Items are the records in API order
	Items []Repository
}

// Empty reports whether the page terminates enumeration.
func (p Page) Empty() bool {
	return len(p.Items) == 0
}

// ValidateRepositories validates every record and returns the first violation.
func ValidateRepositories(repos []Repository) error {
	for _, r := range repos {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	return nil
}
