// Package model defines the data structures used throughout doubleblind.
//
// Records fetched from the API ([Repository], [Project]) are immutable value
// snapshots: every fetch replaces the previous snapshot wholesale and no
// record carries identity beyond its ID field.
//
// # Repository
//
// A [Repository] is deployed when it is served on a subdomain. Domain and
// Branch are both set for deployed repositories and both nil otherwise;
// [Repository.Validate] enforces this.
//
// # Mutations
//
// [MutationRequest] is a closed set of write operations:
//
//	CreateProject{Name, RepoIdentifier}
//	DeployRepository{Domain, Branch, RepositoryID}
//
// Run Validate before submitting; the mutation gateway checks again. A
// [ValidationError] never reaches the network.
package model
