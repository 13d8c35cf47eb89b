package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rickgao/coinpulse/internal/model"
)

// step is one scripted GetTickers outcome. A nil block returns immediately.
type step struct {
	tickers []model.Ticker
	err     error
	block   bool // wait for ctx cancellation
}

type scriptedSource struct {
	mu    sync.Mutex
	steps []step
	calls []time.Time
}

func (s *scriptedSource) GetTickers(ctx context.Context) ([]model.Ticker, error) {
	s.mu.Lock()
	i := len(s.calls)
	s.calls = append(s.calls, time.Now())
	var st step
	if i < len(s.steps) {
		st = s.steps[i]
	} else {
		st = s.steps[len(s.steps)-1]
	}
	s.mu.Unlock()

	if st.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return st.tickers, st.err
}

func (s *scriptedSource) callTimes() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.calls...)
}

type recorder struct {
	mu      sync.Mutex
	results []Result
}

func (r *recorder) Publish(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) all() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Result(nil), r.results...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func closePoller(t *testing.T, p *Poller) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Close(ctx); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

var someTickers = []model.Ticker{{AbbreviatedName: model.Ptr("BTC")}}

func TestPoller_StopConditions(t *testing.T) {
	tests := []struct {
		name  string
		steps []step
		want  int // published results before going idle
	}{
		{name: "empty result", steps: []step{{tickers: []model.Ticker{}}}, want: 1},
		{name: "error result", steps: []step{{err: errors.New("boom")}}, want: 1},
		{name: "non-empty then empty", steps: []step{{tickers: someTickers}, {tickers: nil}}, want: 2},
		{name: "two non-empty then error", steps: []step{{tickers: someTickers}, {tickers: someTickers}, {err: errors.New("boom")}}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scriptedSource{steps: tt.steps}
			rec := &recorder{}
			p := New(Config{Interval: 5 * time.Millisecond}, src, rec, nil)
			defer closePoller(t, p)

			if err := p.Start(); err != nil {
				t.Fatalf("Start failed: %v", err)
			}
			waitFor(t, "poller idle", func() bool { return !p.Running() })

			// No further cycles once idle.
			time.Sleep(20 * time.Millisecond)

			if got := len(rec.all()); got != tt.want {
				t.Errorf("published = %d, want %d", got, tt.want)
			}
			if got := len(src.callTimes()); got != tt.want {
				t.Errorf("GetTickers calls = %d, want %d", got, tt.want)
			}
			if got := p.Cycles(); got != int64(tt.want) {
				t.Errorf("Cycles() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPoller_WaitsIntervalBetweenCycles(t *testing.T) {
	const interval = 30 * time.Millisecond

	src := &scriptedSource{steps: []step{{tickers: someTickers}, {tickers: []model.Ticker{}}}}
	p := New(Config{Interval: interval}, src, &recorder{}, nil)
	defer closePoller(t, p)

	_ = p.Start()
	waitFor(t, "poller idle", func() bool { return !p.Running() })

	calls := src.callTimes()
	if len(calls) != 2 {
		t.Fatalf("GetTickers calls = %d, want 2", len(calls))
	}
	if gap := calls[1].Sub(calls[0]); gap < interval {
		t.Errorf("gap between cycles = %v, want >= %v", gap, interval)
	}
}

func TestPoller_StartIsIdempotent(t *testing.T) {
	src := &scriptedSource{steps: []step{{block: true}}}
	p := New(Config{}, src, &recorder{}, nil)
	defer closePoller(t, p)

	_ = p.Start()
	_ = p.Start()
	waitFor(t, "first call", func() bool { return len(src.callTimes()) >= 1 })
	time.Sleep(10 * time.Millisecond)

	if got := len(src.callTimes()); got != 1 {
		t.Errorf("GetTickers calls = %d, want 1", got)
	}
	if !p.Running() {
		t.Error("Running() = false, want true")
	}
}

func TestPoller_StopAbandonsCycle(t *testing.T) {
	src := &scriptedSource{steps: []step{{block: true}}}
	rec := &recorder{}
	p := New(Config{}, src, rec, nil)
	defer closePoller(t, p)

	_ = p.Start()
	waitFor(t, "first call", func() bool { return len(src.callTimes()) == 1 })

	p.Stop()
	if p.Running() {
		t.Error("Running() after Stop = true, want false")
	}

	time.Sleep(10 * time.Millisecond)
	if got := len(rec.all()); got != 0 {
		t.Errorf("published = %d, want 0", got)
	}
}

func TestPoller_RestartReplacesActivation(t *testing.T) {
	src := &scriptedSource{steps: []step{{block: true}, {tickers: []model.Ticker{}}}}
	rec := &recorder{}
	p := New(Config{}, src, rec, nil)
	defer closePoller(t, p)

	_ = p.Start()
	waitFor(t, "first call", func() bool { return len(src.callTimes()) == 1 })
	p.mu.Lock()
	first := p.activation
	p.mu.Unlock()

	if err := p.Restart(); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	waitFor(t, "poller idle", func() bool { return !p.Running() })

	results := rec.all()
	if len(results) != 1 {
		t.Fatalf("published = %d, want 1", len(results))
	}
	if results[0].Activation == first {
		t.Error("result came from the replaced activation")
	}
	if results[0].Activation == "" {
		t.Error("result has no activation ID")
	}
}

func TestPoller_RestartWhileIdle(t *testing.T) {
	src := &scriptedSource{steps: []step{{tickers: []model.Ticker{}}}}
	rec := &recorder{}
	p := New(Config{}, src, rec, nil)
	defer closePoller(t, p)

	_ = p.Start()
	waitFor(t, "poller idle", func() bool { return !p.Running() })

	_ = p.Restart()
	waitFor(t, "second result", func() bool { return len(rec.all()) == 2 })
}

func TestPoller_Close(t *testing.T) {
	src := &scriptedSource{steps: []step{{block: true}}}
	p := New(Config{}, src, &recorder{}, nil)

	_ = p.Start()
	waitFor(t, "first call", func() bool { return len(src.callTimes()) == 1 })

	closePoller(t, p)

	if err := p.Start(); !errors.Is(err, ErrStopped) {
		t.Errorf("Start after Close = %v, want ErrStopped", err)
	}
	if err := p.Restart(); !errors.Is(err, ErrStopped) {
		t.Errorf("Restart after Close = %v, want ErrStopped", err)
	}
}

func TestResultContinue(t *testing.T) {
	tests := []struct {
		name string
		r    Result
		want bool
	}{
		{"non-empty", Result{Tickers: someTickers}, true},
		{"empty", Result{Tickers: []model.Ticker{}}, false},
		{"nil", Result{}, false},
		{"error", Result{Tickers: someTickers, Err: errors.New("x")}, false},
	}
	for _, tt := range tests {
		if got := tt.r.Continue(); got != tt.want {
			t.Errorf("%s: Continue() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
