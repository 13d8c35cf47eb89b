package api

import (
	"errors"
	"fmt"
)

// Kind classifies a fetch failure.
type Kind int

const (
	KindUnknown   Kind = iota // decode syntax errors and anything unclassified
	KindRedirect              // 3xx response
	KindClient                // 4xx response
	KindServer                // 5xx response
	KindTransport             // network or I/O failure
)

func (k Kind) String() string {
	switch k {
	case KindRedirect:
		return "redirect"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// FetchError is returned by every failed call.
type FetchError struct {
	Kind       Kind
	Path       string
	StatusCode int    // 0 when no response was received
	Status     string // e.g. "503 Service Unavailable"
	Body       []byte
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: %s error: %s", e.Path, e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %s error: %v", e.Path, e.Kind, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %s error", e.Path, e.Kind)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Classify returns the Kind of err, or KindUnknown if err is not a *FetchError.
func Classify(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// kindForStatus maps a non-2xx status code to a Kind.
func kindForStatus(code int) Kind {
	switch {
	case code >= 300 && code < 400:
		return KindRedirect
	case code >= 400 && code < 500:
		return KindClient
	case code >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}
