package core

import (
	"context"

	"github.com/inovacc/doubleblind/internal/model"
	"github.com/inovacc/doubleblind/internal/notify"
)

// PageSource returns the repositories on one page of a remote collection.
// Fewer than size items, including zero, is a valid answer.
type PageSource interface {
	FetchPage(ctx context.Context, index, size int) ([]model.Repository, error)
}

// PageSourceFunc adapts a function to PageSource.
type PageSourceFunc func(ctx context.Context, index, size int) ([]model.Repository, error)

func (f PageSourceFunc) FetchPage(ctx context.Context, index, size int) ([]model.Repository, error) {
	return f(ctx, index, size)
}

// QuerySource returns a single, finite result list for a search term.
type QuerySource interface {
	Search(ctx context.Context, term string) ([]model.Repository, error)
}

// QuerySourceFunc adapts a function to QuerySource.
type QuerySourceFunc func(ctx context.Context, term string) ([]model.Repository, error)

func (f QuerySourceFunc) Search(ctx context.Context, term string) ([]model.Repository, error) {
	return f(ctx, term)
}

// Mutator performs the remote write operations.
type Mutator interface {
	CreateProject(ctx context.Context, name, repoIdentifier string) error
	Deploy(ctx context.Context, domain, branch string, repositoryID int64) error
}

// NotificationSink receives user-facing outcome events. *notify.Dispatcher
// satisfies it.
type NotificationSink interface {
	Dispatch(ctx context.Context, event *notify.Event)
}
