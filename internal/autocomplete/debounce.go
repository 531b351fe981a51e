package autocomplete

import (
	"slices"
	"sync"
	"time"
)

// DefaultDelay is how long input must stay unchanged before it is looked up.
const DefaultDelay = 300 * time.Millisecond

// Autocompleter debounces keystrokes and publishes suggestions for the
// last input only. Each Update supersedes the pending one; a superseded
// lookup never changes Suggestions or reaches the callback.
type Autocompleter struct {
	cache    *JournalCache
	delay    time.Duration
	onUpdate func([]string)

	// notifyMu orders callback deliveries; it is taken before mu.
	notifyMu sync.Mutex

	mu          sync.Mutex
	gen         uint64
	timer       *time.Timer
	pending     string
	suggestions []string
	inflight    sync.WaitGroup
}

// Option configures an Autocompleter.
type Option func(*Autocompleter)

// WithDelay sets the settle delay.
func WithDelay(d time.Duration) Option {
	return func(a *Autocompleter) {
		a.delay = d
	}
}

// WithCallback registers fn to receive every published suggestion list.
// fn runs on a timer goroutine, or on the caller's goroutine when Update
// clears suggestions for empty input. Deliveries never overlap, and a list
// is never delivered after one for newer input. fn must not call back
// into the Autocompleter.
func WithCallback(fn func([]string)) Option {
	return func(a *Autocompleter) {
		a.onUpdate = fn
	}
}

// New returns an Autocompleter reading from cache.
func New(cache *JournalCache, opts ...Option) *Autocompleter {
	a := &Autocompleter{cache: cache, delay: DefaultDelay}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Update records new input. Empty input clears suggestions at once;
// anything else is looked up after the settle delay unless another Update
// arrives first.
func (a *Autocompleter) Update(text string) {
	a.mu.Lock()
	a.gen++
	gen := a.gen
	a.stopTimer()
	if text == "" {
		a.suggestions = nil
		a.mu.Unlock()
		a.notifyCurrent(gen, nil)
		return
	}
	a.pending = text
	a.inflight.Add(1)
	a.timer = time.AfterFunc(a.delay, func() {
		defer a.inflight.Done()
		a.resolve(gen, text)
	})
	a.mu.Unlock()
}

// Cancel drops any pending lookup without touching current suggestions.
func (a *Autocompleter) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	a.stopTimer()
}

// Flush looks up pending input at once instead of after the delay, then
// waits until no lookup is running.
func (a *Autocompleter) Flush() {
	a.mu.Lock()
	gen, text := a.gen, a.pending
	run := a.timer != nil && a.timer.Stop()
	if run {
		a.inflight.Done()
		a.timer = nil
	}
	a.mu.Unlock()

	if run {
		a.resolve(gen, text)
	}
	a.inflight.Wait()
}

// stopTimer stops a pending lookup. Callers hold mu.
func (a *Autocompleter) stopTimer() {
	if a.timer == nil {
		return
	}
	if a.timer.Stop() {
		a.inflight.Done()
	}
	a.timer = nil
}

// Suggestions returns the last published suggestions.
func (a *Autocompleter) Suggestions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.suggestions)
}

func (a *Autocompleter) resolve(gen uint64, text string) {
	res := a.cache.Suggest(text)

	a.notifyMu.Lock()
	defer a.notifyMu.Unlock()

	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.suggestions = res
	a.timer = nil
	a.mu.Unlock()

	a.notify(slices.Clone(res))
}

// notifyCurrent delivers res unless input newer than gen has arrived.
func (a *Autocompleter) notifyCurrent(gen uint64, res []string) {
	a.notifyMu.Lock()
	defer a.notifyMu.Unlock()

	a.mu.Lock()
	current := gen == a.gen
	a.mu.Unlock()
	if current {
		a.notify(res)
	}
}

func (a *Autocompleter) notify(res []string) {
	if a.onUpdate != nil {
		a.onUpdate(res)
	}
}
