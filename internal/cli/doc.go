// Package cli provides the terminal user interface components for doubleblind.
//
// The package uses [Bubbletea] for building interactive terminal UIs and
// [Lipgloss] for styling. All UI components follow the standard Bubbletea
// Model-View-Update (MVU) architecture.
//
// # Components
//
//   - Fetch: spinner shown while a paginated fetch drains the remote collection
//   - RepoList: filterable list of repositories with their deployment state
//   - Search: live search box driven by a core.SearchPipeline
//
// The search view never calls a source itself. Each keystroke is handed to
// the pipeline and the view renders whatever the pipeline emits, so debounce
// and stale-result handling live in one place.
//
// [Bubbletea]: https://github.com/charmbracelet/bubbletea
// [Lipgloss]: https://github.com/charmbracelet/lipgloss
package cli
