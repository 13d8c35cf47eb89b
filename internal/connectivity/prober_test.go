package connectivity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var errDown = errors.New("down")

func TestStatusString(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{Available, "available"},
		{Unavailable, "unavailable"},
		{Losing, "losing"},
		{Lost, "lost"},
		{Status(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestTracker(t *testing.T) {
	tests := []struct {
		name    string
		results []error
		want    []Status // emitted transitions only
	}{
		{
			name:    "healthy",
			results: []error{nil, nil, nil},
			want:    []Status{Available},
		},
		{
			name:    "never up",
			results: []error{errDown, errDown, errDown, errDown},
			want:    []Status{Unavailable},
		},
		{
			name:    "degrades to lost",
			results: []error{nil, errDown, errDown, errDown, errDown},
			want:    []Status{Available, Losing, Lost},
		},
		{
			name:    "recovers while losing",
			results: []error{nil, errDown, nil},
			want:    []Status{Available, Losing, Available},
		},
		{
			name:    "recovers from lost",
			results: []error{nil, errDown, errDown, errDown, nil},
			want:    []Status{Available, Losing, Lost, Available},
		},
		{
			name:    "comes up late",
			results: []error{errDown, nil},
			want:    []Status{Unavailable, Available},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := tracker{lostAfter: 3}
			var got []Status
			for _, err := range tt.results {
				if s, changed := tr.observe(err); changed {
					got = append(got, s)
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("transitions = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("transitions[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// scriptedPinger returns results in order, then repeats the last one.
type scriptedPinger struct {
	mu      sync.Mutex
	results []error
	calls   int
}

func (s *scriptedPinger) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	return s.results[i]
}

func TestProberObserve(t *testing.T) {
	pinger := &scriptedPinger{results: []error{nil, nil, errDown, errDown, nil}}
	p := NewProber(Config{Interval: 5 * time.Millisecond, LostAfter: 2}, pinger, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch := p.Observe(ctx)
	want := []Status{Available, Losing, Lost, Available}
	for i, w := range want {
		select {
		case got := <-ch:
			if got != w {
				t.Fatalf("status[%d] = %v, want %v", i, got, w)
			}
		case <-ctx.Done():
			t.Fatalf("timed out waiting for status[%d]", i)
		}
	}

	cancel()
	for range ch {
	}
}

func TestNewProberDefaults(t *testing.T) {
	p := NewProber(Config{}, &scriptedPinger{results: []error{nil}}, nil)
	if p.cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want %+v", p.cfg, DefaultConfig())
	}
}
