// Package connectivity reports whether the upstream API is reachable.
//
// A Prober pings the API on a fixed interval and emits a Status only when
// it changes:
//
//	              ok                 fail               fail × lost_after
//	Unavailable ──────► Available ─────────► Losing ─────────────────────► Lost
//	     ▲                  ▲                   │ ok                         │ ok
//	     │ fail (never ok)  └───────────────────┴────────────────────────────┘
//
// Only Available allows fetching.
package connectivity

import "context"

// Status is the observed reachability of the upstream.
type Status int

const (
	Unavailable Status = iota
	Available
	Losing
	Lost
)

func (s Status) String() string {
	switch s {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	case Losing:
		return "losing"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Observer streams connectivity transitions until ctx is done.
type Observer interface {
	Observe(ctx context.Context) <-chan Status
}
