// Package feed is the synchronization engine behind the post list.
//
// Three writers share one entity store: the optimistic mutation
// pipeline (the user's own writes, applied before the server confirms
// them), the realtime reconciler (other clients' inserts folded in from
// the change stream) and the consistency refresh (full refetch that
// replaces the working set wholesale). The feed owns all three and is
// the only surface the view layer talks to.
package feed

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/moyim-dev/moyim/internal/backend"
	"github.com/moyim-dev/moyim/internal/merge"
	"github.com/moyim-dev/moyim/internal/metrics"
	"github.com/moyim-dev/moyim/internal/notify"
	"github.com/moyim-dev/moyim/internal/store"
	"github.com/moyim-dev/moyim/internal/tempid"
	"github.com/moyim-dev/moyim/shared/api"
	"github.com/moyim-dev/moyim/shared/domain"
	"github.com/moyim-dev/moyim/shared/logger"
)

// Identity yields the acting user. Satisfied by *session.Session.
type Identity interface {
	Current() (domain.UserSummary, error)
}

type Feed struct {
	backend  backend.Backend
	identity Identity
	notifier *notify.Creator
	store    *store.Store
	ids      *tempid.Allocator
	validate *validator.Validate

	refreshSeq atomic.Uint64
	refreshMu  sync.Mutex // serializes sequence re-check + store swap

	mu      sync.Mutex
	filter  backend.Filter
	loading bool
	lastErr error
	closed  bool
	cancel  context.CancelFunc

	wg sync.WaitGroup
}

func New(b backend.Backend, identity Identity, notifier *notify.Creator) *Feed {
	return &Feed{
		backend:  b,
		identity: identity,
		notifier: notifier,
		store:    store.New(),
		ids:      tempid.New(),
		validate: validator.New(),
	}
}

// Posts returns the current immutable snapshot.
func (f *Feed) Posts() []domain.Post {
	return f.store.Posts()
}

func (f *Feed) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Err returns the last surfaced failure, cleared by the next successful
// refresh.
func (f *Feed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *Feed) Filter() backend.Filter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter
}

// SetFilter changes the working-set scope and refreshes. The change
// stream subscription is not reopened: events outside the new working
// set fall out as no-targets in the reducer.
func (f *Feed) SetFilter(ctx context.Context, filter backend.Filter) error {
	f.mu.Lock()
	f.filter = filter
	f.mu.Unlock()
	return f.Refresh(ctx)
}

// Start performs the initial refresh and opens the realtime
// subscription. The event loop runs until Close or ctx cancellation.
func (f *Feed) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	f.mu.Lock()
	f.cancel = cancel
	f.mu.Unlock()

	if err := f.Refresh(runCtx); err != nil {
		logger.Log.Warn("initial refresh failed", "component", "feed", "error", err)
	}

	events, err := f.backend.Subscribe(runCtx, f.Filter())
	if err != nil {
		cancel()
		return err
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		for ev := range events {
			f.handleEvent(ev)
		}
		logger.Log.Info("realtime stream closed", "component", "feed")
	}()
	return nil
}

// Close tears the feed down: the subscription is released and any
// in-flight mutation resolution is discarded instead of touching the
// store.
func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	cancel := f.cancel
	f.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	f.wg.Wait()
}

func (f *Feed) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Feed) setErr(err error) {
	f.mu.Lock()
	f.lastErr = err
	f.mu.Unlock()
}

func (f *Feed) handleEvent(ev api.ChangeEvent) {
	if f.isClosed() {
		return
	}
	var outcome merge.Outcome
	f.store.Apply(func(posts []domain.Post) []domain.Post {
		var next []domain.Post
		next, outcome = merge.Apply(posts, ev)
		return next
	})
	metrics.RealtimeEvents.WithLabelValues(outcomeLabel(outcome)).Inc()
	if outcome == merge.Suppressed {
		logger.Log.Debug("suppressed realtime echo of pending mutation",
			"component", "feed", "table", ev.Table)
	}
}

func outcomeLabel(o merge.Outcome) string {
	switch o {
	case merge.Merged:
		return "merged"
	case merge.Suppressed:
		return "suppressed"
	case merge.Duplicate:
		return "duplicate"
	case merge.NoTarget:
		return "no_target"
	default:
		return "ignored"
	}
}

// Refresh refetches the working set and replaces the store wholesale.
// Overlapping refreshes collapse to latest-wins: every run takes a
// monotonically increasing sequence number and a result is discarded
// when a newer run has started since.
func (f *Feed) Refresh(ctx context.Context) error {
	seq := f.refreshSeq.Add(1)

	f.mu.Lock()
	f.loading = true
	filter := f.filter
	f.mu.Unlock()

	start := time.Now()
	records, err := f.backend.FetchPosts(ctx, filter)
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())

	f.mu.Lock()
	// only the newest in-flight refresh may clear the flag; an older run
	// finishing early must not report the feed as settled
	if seq == f.refreshSeq.Load() {
		f.loading = false
	}
	f.mu.Unlock()

	if err != nil {
		metrics.Refreshes.WithLabelValues("failed").Inc()
		f.setErr(err)
		return err
	}

	if f.isClosed() {
		return nil
	}

	if !f.applyRefresh(seq, api.MapPosts(records)) {
		metrics.Refreshes.WithLabelValues("stale").Inc()
		logger.Log.Debug("discarding stale refresh result", "component", "feed", "seq", seq)
		return nil
	}
	metrics.Refreshes.WithLabelValues("applied").Inc()
	return nil
}

// applyRefresh installs a refresh result. The sequence re-check and the
// store swap happen under one lock, so a run that was overtaken between
// its fetch and its swap can never overwrite a newer result.
func (f *Feed) applyRefresh(seq uint64, posts []domain.Post) bool {
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()
	if seq != f.refreshSeq.Load() || f.isClosed() {
		return false
	}
	f.store.ReplaceAll(posts)
	f.setErr(nil)
	return true
}
