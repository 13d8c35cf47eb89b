// Package poller implements the refresh loop and its supervisor.
//
// The Poller runs at most one activation at a time:
//
//	Idle ──Start──► Polling ──┬── non-empty result ──► wait Interval ──► Polling
//	 ▲                        ├── empty result ───────► Idle
//	 │                        ├── error ──────────────► Idle
//	 └────────Stop────────────┘
//
// Restart replaces the running activation with a fresh one. A replaced
// activation never publishes.
//
// The Supervisor starts the loop only while the upstream is Available and
// the consumer is visible, and stops it otherwise.
package poller
