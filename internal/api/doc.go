// Package api provides the client for the Bitfinex public REST API (v2).
//
// Endpoints:
//   - GET /tickers?symbols=tBTCUSD,tETHUSD   positional ticker rows
//   - GET /conf/pub:map:currency:label       currency display names
//   - GET /platform/status                   [1] when operative
//
// Failures surface as *FetchError classified by Kind. The client never
// retries; callers own the retry policy.
package api
