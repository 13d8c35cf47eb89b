// Package decode turns the loosely-typed positional array payloads of the
// Bitfinex public API into typed records.
//
// Decoding is tolerant per element: a malformed row is logged and dropped,
// the rest of the batch survives. ErrNoRecords marks the "nothing usable"
// outcome, which callers treat differently from an empty but valid result.
package decode
