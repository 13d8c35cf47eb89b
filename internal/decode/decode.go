package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Positions of the fields used from a tickers row.
// Row layout: [SYMBOL, BID, BID_SIZE, ASK, ASK_SIZE, DAILY_CHANGE, DAILY_CHANGE_RELATIVE, LAST_PRICE, ...]
const (
	IndexSymbol              = 0
	IndexDailyChangeRelative = 6
	IndexLastPrice           = 7

	IndexAbbreviation = 0
	IndexLabel        = 1
)

var (
	// ErrNoRecords is returned when the payload is null, not an array,
	// or no element survived decoding.
	ErrNoRecords = errors.New("no decodable records")

	// ErrMalformed is returned when the payload is not valid JSON.
	ErrMalformed = errors.New("malformed payload")

	errNotArray     = errors.New("not an array")
	errMissingField = errors.New("missing field")
	errWrongType    = errors.New("wrong type")
)

// ElementError describes why a single element was dropped.
type ElementError struct {
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

// Decoder decodes positional payloads and logs dropped elements.
type Decoder struct {
	logger *slog.Logger
}

// New creates a Decoder.
func New(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{logger: logger}
}

// splitArray decodes payload as a JSON array of raw elements.
// A JSON null or a non-array value yields ErrNoRecords.
func splitArray(payload []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: null payload", ErrNoRecords)
	}
	if !json.Valid(trimmed) {
		return nil, ErrMalformed
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: payload is not an array", ErrNoRecords)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return elems, nil
}

// fields decodes a single element as an array of values.
// Numbers are kept as json.Number so any numeric form is accepted.
func fields(raw json.RawMessage) ([]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errNotArray
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var out []any
	if err := dec.Decode(&out); err != nil {
		return nil, errNotArray
	}
	return out, nil
}

func stringAt(values []any, i int) (string, error) {
	if i >= len(values) || values[i] == nil {
		return "", fmt.Errorf("%w at index %d", errMissingField, i)
	}
	s, ok := values[i].(string)
	if !ok {
		return "", fmt.Errorf("%w at index %d: %T", errWrongType, i, values[i])
	}
	return s, nil
}

func numberAt(values []any, i int) (float64, error) {
	if i >= len(values) || values[i] == nil {
		return 0, fmt.Errorf("%w at index %d", errMissingField, i)
	}
	n, ok := values[i].(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w at index %d: %T", errWrongType, i, values[i])
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w at index %d: %v", errWrongType, i, err)
	}
	return f, nil
}
