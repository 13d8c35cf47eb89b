// Package model defines shared data types used across coinpulse.
//
// Conventions:
//   - Prices and relative changes: float64, nil when the upstream value was absent
//   - Timestamps: int64 milliseconds since Unix epoch
//   - Keys: the short abbreviation (e.g. "BTC") identifies a cached row
package model
