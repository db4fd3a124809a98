// Package core provides the asynchronous data-synchronization layer of doubleblind.
//
// This package holds the three components that talk to remote sources on
// behalf of the UI. None of them prints to stdout or knows how results are
// rendered; they return values and errors and log through an injected
// [log/slog.Logger].
//
// # Capabilities
//
// Components depend on small interfaces rather than concrete clients:
//
//   - [PageSource] returns one page of repositories for a 0-based index
//   - [QuerySource] returns the repositories matching a search term
//   - [Mutator] performs create-project and deploy writes
//   - [NotificationSink] receives user-facing outcome events
//
// Both the doubleblind API client and the GitHub source satisfy the read
// capabilities. [PageSourceFunc] and [QuerySourceFunc] adapt plain functions.
//
// # Pagination
//
// [PaginatedFetcher.FetchAll] requests pages strictly in sequence and stops at
// the first page with zero items. A failing page aborts the whole aggregation
// with a [*PageError]; no partial list is returned.
//
// # Live search
//
// [SearchPipeline] debounces query updates, issues at most one authoritative
// request at a time and drops results from superseded requests using a
// generation counter. Results are delivered on a latest-wins channel.
//
// # Mutations
//
// [MutationGateway.Submit] performs a single write attempt and reports the
// outcome to the sink with a fixed message. Error detail is logged only.
package core
