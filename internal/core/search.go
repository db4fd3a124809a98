package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/inovacc/doubleblind/internal/metrics"
	"github.com/inovacc/doubleblind/internal/model"
)

// DefaultDebounce is the quiet window used when SearchOptions.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// SearchResult is one authoritative outcome of the search pipeline.
type SearchResult struct {
	// Query is the debounced query; nil when no query has been entered
	Query *string

	// Items is never nil on success
	Items []model.Repository

	// Err is the failure of the authoritative request, if any
	Err error

	// Generation identifies the request that produced the result
	Generation uint64
}

// SearchOptions configures a SearchPipeline.
type SearchOptions struct {
	Debounce time.Duration
	Clock    clock.Clock
	Logger   *slog.Logger
	Metrics  *metrics.Collector
}

// SearchPipeline turns a stream of query updates into a stream of
// up-to-date result lists.
//
// Every Update restarts the debounce timer. When the timer elapses the last
// query wins: a nil query emits an empty result without a request, anything
// else is sent to the QuerySource under a new generation. Results whose
// generation is no longer current are dropped, whether they succeeded or
// failed, so a slow request can never overwrite a newer result.
type SearchPipeline struct {
	source   QuerySource
	debounce time.Duration
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *metrics.Collector

	base   context.Context
	stop   context.CancelFunc
	detach func() bool

	results chan SearchResult
	wg      sync.WaitGroup

	mu         sync.Mutex
	pending    *string
	timer      *clock.Timer
	timerSeq   uint64
	generation uint64
	cancel     context.CancelFunc
	closed     bool
}

// NewSearchPipeline starts a pipeline reading from source. The pipeline is
// torn down by Close or when ctx is done, whichever happens first.
func NewSearchPipeline(ctx context.Context, source QuerySource, opts SearchOptions) *SearchPipeline {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &SearchPipeline{
		source:   source,
		debounce: debounce,
		clock:    clk,
		logger:   logger,
		metrics:  opts.Metrics,
		results:  make(chan SearchResult, 1),
	}

	p.base, p.stop = context.WithCancel(context.WithoutCancel(ctx))

	// Close takes p.mu before reading detach, so an already-done ctx cannot
	// run it ahead of the assignment.
	p.mu.Lock()
	p.detach = context.AfterFunc(ctx, p.Close)
	p.mu.Unlock()

	return p
}

// Results delivers authoritative results. The channel holds at most one
// value; an unread result is replaced by a newer one. It is closed by Close.
func (p *SearchPipeline) Results() <-chan SearchResult {
	return p.results
}

// Update records a new query value and restarts the debounce window. A nil
// query means "nothing entered"; the empty string is a real query.
func (p *SearchPipeline) Update(query *string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPipelineClosed
	}

	if query != nil {
		q := *query
		p.pending = &q
	} else {
		p.pending = nil
	}

	if p.timer != nil {
		p.timer.Stop()
	}

	p.timerSeq++
	seq := p.timerSeq
	p.timer = p.clock.AfterFunc(p.debounce, func() { p.fire(seq) })

	return nil
}

// Set is Update for a present query.
func (p *SearchPipeline) Set(query string) error {
	return p.Update(&query)
}

// Clear is Update with no query.
func (p *SearchPipeline) Clear() error {
	return p.Update(nil)
}

// fire runs when the debounce timer armed by Update number seq elapses.
func (p *SearchPipeline) fire(seq uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A stopped timer can still fire once; only the latest arm counts.
	if p.closed || seq != p.timerSeq {
		return
	}

	p.timer = nil
	p.generation++
	gen := p.generation

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	if p.pending == nil {
		p.publishLocked(SearchResult{Items: []model.Repository{}, Generation: gen})
		return
	}

	term := *p.pending
	ctx, cancel := context.WithCancel(p.base)
	p.cancel = cancel
	p.wg.Add(1)
	p.metrics.SearchIssued()

	p.logger.Debug("search issued", slog.String("term", term), slog.Uint64("generation", gen))

	go p.run(ctx, cancel, gen, term)
}

func (p *SearchPipeline) run(ctx context.Context, cancel context.CancelFunc, gen uint64, term string) {
	defer p.wg.Done()
	defer cancel()

	start := time.Now()
	items, err := p.source.Search(ctx, term)
	p.metrics.ObserveDuration("search", time.Since(start).Seconds())

	if err == nil {
		err = model.ValidateRepositories(items)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || gen != p.generation {
		p.metrics.SearchDropped()
		p.logger.Debug("stale search result dropped",
			slog.String("term", term),
			slog.Uint64("generation", gen),
			slog.Uint64("current", p.generation))

		return
	}

	if err != nil {
		p.metrics.SearchFailed()
		p.publishLocked(SearchResult{Query: &term, Err: err, Generation: gen})

		return
	}

	if items == nil {
		items = []model.Repository{}
	}

	p.publishLocked(SearchResult{Query: &term, Items: items, Generation: gen})
}

// publishLocked hands r to the subscriber, replacing an unread result.
// p.mu must be held.
func (p *SearchPipeline) publishLocked(r SearchResult) {
	for {
		select {
		case p.results <- r:
			return
		default:
		}

		select {
		case <-p.results:
		default:
		}
	}
}

// Close stops the debounce timer, cancels the outstanding request, waits for
// it to return and closes the results channel. It is safe to call more than
// once.
//
// A QuerySource that ignores ctx cancellation delays Close until its call
// returns; its result is discarded.
func (p *SearchPipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}

	p.closed = true
	p.timerSeq++

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	detach := p.detach
	p.mu.Unlock()

	if detach != nil {
		detach()
	}

	p.stop()
	p.wg.Wait()
	close(p.results)
}
