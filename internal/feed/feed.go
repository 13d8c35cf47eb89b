// Package feed holds the latest poll result and fans it out to subscribers.
package feed

import (
	"log/slog"
	"sync"

	"github.com/rickgao/coinpulse/internal/poller"
)

// Feed is a poller.Publisher that keeps the newest result and delivers it
// to every subscriber. Slow subscribers only ever see the newest result.
type Feed struct {
	logger *slog.Logger

	mu      sync.Mutex
	latest  poller.Result
	has     bool
	subs    map[int]chan poller.Result
	nextID  int
	onCount func(int)
}

// Option configures a Feed.
type Option func(*Feed)

// WithSubscriberHook calls fn with the new subscriber count after every
// Subscribe and unsubscribe. fn runs outside the feed's lock.
func WithSubscriberHook(fn func(count int)) Option {
	return func(f *Feed) {
		f.onCount = fn
	}
}

// New creates an empty Feed.
func New(logger *slog.Logger, opts ...Option) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Feed{
		logger: logger,
		subs:   make(map[int]chan poller.Result),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Publish implements poller.Publisher. It never blocks.
func (f *Feed) Publish(r poller.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.latest = r
	f.has = true

	for id, ch := range f.subs {
		if !offer(ch, r) {
			f.logger.Debug("subscriber lagging, replaced pending result", "subscriber", id)
		}
	}
}

// Latest returns the most recent result, if any.
func (f *Feed) Latest() (poller.Result, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.latest, f.has
}

// Subscribe registers a subscriber. The latest result, if any, is queued
// immediately. Call the returned func to unsubscribe; it closes the channel.
func (f *Feed) Subscribe() (<-chan poller.Result, func()) {
	ch := make(chan poller.Result, 1)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	if f.has {
		ch <- f.latest
	}
	count := len(f.subs)
	f.mu.Unlock()

	f.notify(count)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			close(ch)
			count := len(f.subs)
			f.mu.Unlock()

			f.notify(count)
		})
	}
	return ch, cancel
}

// Subscribers returns the current subscriber count.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.subs)
}

func (f *Feed) notify(count int) {
	if f.onCount != nil {
		f.onCount(count)
	}
}

// offer delivers r, replacing a pending undelivered result if necessary.
// It reports false when a pending result was dropped.
func offer(ch chan poller.Result, r poller.Result) bool {
	select {
	case ch <- r:
		return true
	default:
	}

	select {
	case <-ch:
	default:
	}

	select {
	case ch <- r:
	default:
	}
	return false
}
