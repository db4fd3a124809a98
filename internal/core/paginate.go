package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/inovacc/doubleblind/internal/metrics"
	"github.com/inovacc/doubleblind/internal/model"
)

// FetcherOptions configures a PaginatedFetcher.
type FetcherOptions struct {
	Logger  *slog.Logger
	Metrics *metrics.Collector
}

// PaginatedFetcher drains a PageSource into one ordered list.
type PaginatedFetcher struct {
	source  PageSource
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewPaginatedFetcher creates a fetcher reading from source.
func NewPaginatedFetcher(source PageSource, opts FetcherOptions) *PaginatedFetcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &PaginatedFetcher{
		source:  source,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// FetchAll requests pages 0, 1, 2, ... of pageSize items, one after the other,
// until a page comes back empty. Short pages do not end the walk. The result
// keeps page order and in-page order. An empty first page yields an empty,
// non-nil slice.
//
// Any page failure, including a record that breaks the repository invariant,
// aborts the walk with a *PageError and no items.
func (f *PaginatedFetcher) FetchAll(ctx context.Context, pageSize int) ([]model.Repository, error) {
	if pageSize < 1 {
		return nil, ErrInvalidPageSize
	}

	all := make([]model.Repository, 0)
	start := time.Now()

	for index := 0; ; index++ {
		page, err := f.fetchPage(ctx, index, pageSize)
		if err != nil {
			f.metrics.PageFailed()
			f.logger.Debug("paginated fetch aborted",
				slog.Int("page", index),
				slog.Int("discarded", len(all)),
				slog.Any("error", err))

			return nil, &PageError{Page: index, Err: err}
		}

		if page.Empty() {
			f.logger.Info("paginated fetch complete",
				slog.Int("pages", index+1),
				slog.Int("items", len(all)),
				slog.Duration("elapsed", time.Since(start)))

			return all, nil
		}

		all = append(all, page.Items...)
	}
}

func (f *PaginatedFetcher) fetchPage(ctx context.Context, index, size int) (model.Page, error) {
	if err := ctx.Err(); err != nil {
		return model.Page{}, err
	}

	start := time.Now()
	items, err := f.source.FetchPage(ctx, index, size)
	f.metrics.ObserveDuration("fetch_page", time.Since(start).Seconds())

	if err != nil {
		return model.Page{}, err
	}

	f.metrics.PageFetched()

	if err := model.ValidateRepositories(items); err != nil {
		return model.Page{}, err
	}

	return model.Page{Index: index, Items: items}, nil
}
