package decode

import (
	"encoding/json"
	"fmt"

	"github.com/rickgao/coinpulse/internal/model"
)

// Quotes decodes a tickers payload (an array of positional rows).
//
// Rows that are not arrays or lack a string symbol, a numeric relative
// change or a numeric last price are dropped. ErrNoRecords is returned
// when nothing survives, including for an empty array.
func (d *Decoder) Quotes(payload []byte) ([]model.QuoteRecord, error) {
	elems, err := splitArray(payload)
	if err != nil {
		d.logger.Warn("tickers payload rejected", "err", err)
		return nil, err
	}

	out := make([]model.QuoteRecord, 0, len(elems))
	dropped := 0
	for i, raw := range elems {
		q, err := decodeQuote(raw)
		if err != nil {
			dropped++
			d.logger.Debug("dropping tickers row", "err", &ElementError{Index: i, Err: err})
			continue
		}
		out = append(out, q)
	}

	if dropped > 0 {
		d.logger.Warn("dropped malformed tickers rows",
			"dropped", dropped,
			"total", len(elems),
		)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %d of %d rows dropped", ErrNoRecords, dropped, len(elems))
	}
	return out, nil
}

// decodeQuote decodes one positional row. Trailing fields are ignored.
func decodeQuote(raw json.RawMessage) (model.QuoteRecord, error) {
	values, err := fields(raw)
	if err != nil {
		return model.QuoteRecord{}, err
	}

	symbol, err := stringAt(values, IndexSymbol)
	if err != nil {
		return model.QuoteRecord{}, err
	}
	change, err := numberAt(values, IndexDailyChangeRelative)
	if err != nil {
		return model.QuoteRecord{}, err
	}
	price, err := numberAt(values, IndexLastPrice)
	if err != nil {
		return model.QuoteRecord{}, err
	}

	return model.QuoteRecord{
		TradingSymbol:       &symbol,
		DailyChangeRelative: &change,
		LastPrice:           &price,
	}, nil
}
