// Package tickers is the synchronizing cache in front of the remote API.
//
// GetTickers serves cached rows while they are fresh and otherwise refreshes
// the whole set as a unit:
//
//	read all rows ─► fresh? ─yes─► return cached
//	                   │no
//	                   ▼
//	  ┌── FetchQuotes ──┐
//	  │                 ├─► both ok? ─no─► ErrRefreshFailed (cache untouched)
//	  └── FetchNames ───┘        │yes
//	                             ▼
//	            merge ─► upsert(lastUpdated=now) ─► return merged
//
// The full read-decide-fetch-merge-write sequence is single-flight.
package tickers
