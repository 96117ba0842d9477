// Package loader runs data loads for a filter and publishes only the answer
// to the most recent request.
package loader

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/SridharX3/Earthquake-Visualizer/internal/filter"
	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
	"github.com/SridharX3/Earthquake-Visualizer/internal/observability"
	"github.com/SridharX3/Earthquake-Visualizer/internal/selection"
	"github.com/SridharX3/Earthquake-Visualizer/internal/usgs"
)

const defaultTimeout = 30 * time.Second

// Options configures a Loader. Zero values get defaults.
type Options struct {
	Endpoints usgs.Endpoints
	Selection *selection.Coordinator // cleared whenever a load begins
	Metrics   *observability.Metrics
	Logger    *zap.Logger
	Clock     clockwork.Clock
	Timeout   time.Duration
}

// Loader orchestrates feed selection, fetch, normalization and filtering.
// Safe for concurrent use.
type Loader struct {
	client    usgs.FeedClient
	endpoints usgs.Endpoints
	selection *selection.Coordinator
	metrics   *observability.Metrics
	logger    *zap.Logger
	clock     clockwork.Clock
	timeout   time.Duration

	mu      sync.Mutex
	state   State
	cancels map[uint64]context.CancelFunc
}

// New creates a Loader whose state starts idle with initial as the filter.
func New(client usgs.FeedClient, initial models.Filter, opts Options) *Loader {
	if opts.Endpoints == (usgs.Endpoints{}) {
		opts.Endpoints = usgs.DefaultEndpoints()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetricsForTesting()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	return &Loader{
		client:    client,
		endpoints: opts.Endpoints,
		selection: opts.Selection,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		clock:     opts.Clock,
		timeout:   opts.Timeout,
		state:     NewState(initial),
		cancels:   make(map[uint64]context.CancelFunc),
	}
}

// State returns the current snapshot
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Begin starts a load for f: it issues a new sequence number, clears the
// selection and cancels any request still in flight.
func (l *Loader) Begin(f models.Filter) Ticket {
	l.mu.Lock()
	var ticket Ticket
	l.state, ticket = l.state.Begin(f, l.clock.Now())
	for seq, cancel := range l.cancels {
		cancel()
		delete(l.cancels, seq)
	}
	l.mu.Unlock()

	if l.selection != nil {
		l.selection.Clear()
	}

	l.metrics.LoadsStarted.Inc()
	l.logger.Debug("load started",
		zap.Uint64("seq", ticket.Seq),
		zap.String("feed", string(f.FeedType)),
		zap.Float64("min_magnitude", f.MinMagnitude),
		zap.Float64("max_magnitude", f.MaxMagnitude),
	)

	return ticket
}

// Run performs the request for t and returns its completion. It blocks until
// the fetch finishes, the timeout expires, ctx is done or a later Begin
// supersedes t. Failures are reported in the completion, never retried.
func (l *Loader) Run(ctx context.Context, t Ticket) Completion {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if !l.track(t.Seq, cancel) {
		return Completion{Seq: t.Seq, Result: Failed(context.Canceled)}
	}
	defer l.untrack(t.Seq)

	req := usgs.SelectFeed(l.endpoints, t.Filter)
	start := l.clock.Now()

	fc, err := l.client.FetchFeed(ctx, req)
	elapsed := l.clock.Since(start)
	l.metrics.FetchDuration.WithLabelValues(string(t.Filter.FeedType)).Observe(elapsed.Seconds())

	if err != nil {
		return Completion{Seq: t.Seq, Result: Failed(err), Elapsed: elapsed}
	}

	records, dropped := usgs.NormalizeAll(fc.Features)
	if dropped > 0 {
		l.metrics.RecordsDropped.Add(float64(dropped))
		l.logger.Warn("skipped unusable features",
			zap.Uint64("seq", t.Seq),
			zap.Int("dropped", dropped),
		)
	}

	return Completion{
		Seq:     t.Seq,
		Result:  Succeeded(filter.Apply(records, t.Filter)),
		Dropped: dropped,
		Elapsed: elapsed,
	}
}

// Complete publishes c if it answers the latest request and returns the
// resulting state. The bool is false for stale completions.
func (l *Loader) Complete(c Completion) (State, bool) {
	l.mu.Lock()
	next, applied := l.state.Complete(c)
	l.state = next
	l.mu.Unlock()

	if !applied {
		l.metrics.StaleCompletions.Inc()
		l.logger.Debug("discarded stale completion",
			zap.Uint64("seq", c.Seq),
			zap.Uint64("latest", next.Seq),
		)
		return next, false
	}

	switch {
	case c.Result.Phase == PhaseFailed:
		kind := usgs.Classify(c.Result.Err)
		l.metrics.LoadsCompleted.WithLabelValues(observability.OutcomeError).Inc()
		l.metrics.LoadErrors.WithLabelValues(kind.String()).Inc()
		l.logger.Error("load failed",
			zap.Uint64("seq", c.Seq),
			zap.String("kind", kind.String()),
			zap.Error(c.Result.Err),
		)
	case c.Result.NoResults():
		l.metrics.LoadsCompleted.WithLabelValues(observability.OutcomeEmpty).Inc()
		l.metrics.RecordsPublished.Set(0)
		l.logger.Info("load returned no earthquakes", zap.Uint64("seq", c.Seq))
	default:
		l.metrics.LoadsCompleted.WithLabelValues(observability.OutcomeSuccess).Inc()
		l.metrics.RecordsPublished.Set(float64(len(c.Result.Records)))
		l.logger.Info("load completed",
			zap.Uint64("seq", c.Seq),
			zap.Int("records", len(c.Result.Records)),
			zap.Duration("elapsed", c.Elapsed),
		)
	}

	return next, true
}

// Load runs a complete load for f synchronously.
func (l *Loader) Load(ctx context.Context, f models.Filter) State {
	t := l.Begin(f)
	st, _ := l.Complete(l.Run(ctx, t))
	return st
}

// track registers cancel for seq unless a newer request already exists
func (l *Loader) track(seq uint64, cancel context.CancelFunc) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.state.Seq {
		return false
	}
	l.cancels[seq] = cancel
	return true
}

func (l *Loader) untrack(seq uint64) {
	l.mu.Lock()
	delete(l.cancels, seq)
	l.mu.Unlock()
}
