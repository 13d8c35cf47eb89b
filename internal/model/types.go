package model

import "strings"

// -----------------------------------------------------------------------------
// Transport Types
// -----------------------------------------------------------------------------

// QuoteRecord is a single decoded row of the positional tickers payload.
// It is produced by the decoder only and never persisted directly.
type QuoteRecord struct {
	TradingSymbol       *string  // Exchange pair symbol (e.g., "tBTCUSD")
	DailyChangeRelative *float64 // Relative change vs. previous day (0.02 = 2%)
	LastPrice           *float64 // Last traded price
}

// ToTicker attaches a resolved abbreviation and label to the quote.
func (q QuoteRecord) ToTicker(abbreviatedName, label *string) Ticker {
	return Ticker{
		Symbol:              q.TradingSymbol,
		DailyChangeRelative: q.DailyChangeRelative,
		LastPrice:           q.LastPrice,
		AbbreviatedName:     abbreviatedName,
		Label:               label,
	}
}

// -----------------------------------------------------------------------------
// Domain Types
// -----------------------------------------------------------------------------

// Ticker is the unit returned to consumers.
type Ticker struct {
	Symbol              *string  `json:"symbol,omitempty"`
	DailyChangeRelative *float64 `json:"daily_change_relative,omitempty"`
	LastPrice           *float64 `json:"last_price,omitempty"`
	AbbreviatedName     *string  `json:"abbreviated_name,omitempty"`
	Label               *string  `json:"label,omitempty"`
}

// Matches reports whether the abbreviation or label contains query,
// ignoring case. A blank query matches every ticker.
func (t Ticker) Matches(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	if t.AbbreviatedName != nil && strings.Contains(strings.ToLower(*t.AbbreviatedName), query) {
		return true
	}
	return t.Label != nil && strings.Contains(strings.ToLower(*t.Label), query)
}

// FilterTickers returns the tickers matching query, preserving order.
func FilterTickers(tickers []Ticker, query string) []Ticker {
	if strings.TrimSpace(query) == "" {
		return tickers
	}
	out := make([]Ticker, 0, len(tickers))
	for _, t := range tickers {
		if t.Matches(query) {
			out = append(out, t)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// Storage Types
// -----------------------------------------------------------------------------

// TickerRow is a cached ticker. AbbreviatedName is the unique key.
type TickerRow struct {
	AbbreviatedName     string   `json:"abbreviated_name"`
	Symbol              *string  `json:"symbol,omitempty"`
	DailyChangeRelative *float64 `json:"daily_change_relative,omitempty"`
	LastPrice           *float64 `json:"last_price,omitempty"`
	Label               *string  `json:"label,omitempty"`
	LastUpdated         int64    `json:"last_updated"` // ms since epoch
}

// ToTicker converts a cached row to its domain form.
func (r TickerRow) ToTicker() Ticker {
	abbr := r.AbbreviatedName
	return Ticker{
		Symbol:              r.Symbol,
		DailyChangeRelative: r.DailyChangeRelative,
		LastPrice:           r.LastPrice,
		AbbreviatedName:     &abbr,
		Label:               r.Label,
	}
}

// RowsToTickers converts cached rows in order.
func RowsToTickers(rows []TickerRow) []Ticker {
	out := make([]Ticker, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToTicker())
	}
	return out
}

// TickersToRows stamps tickers with lastUpdated for persistence.
// Tickers without an abbreviation have no key and are skipped.
func TickersToRows(tickers []Ticker, lastUpdated int64) []TickerRow {
	rows := make([]TickerRow, 0, len(tickers))
	for _, t := range tickers {
		if t.AbbreviatedName == nil || *t.AbbreviatedName == "" {
			continue
		}
		rows = append(rows, TickerRow{
			AbbreviatedName:     *t.AbbreviatedName,
			Symbol:              t.Symbol,
			DailyChangeRelative: t.DailyChangeRelative,
			LastPrice:           t.LastPrice,
			Label:               t.Label,
			LastUpdated:         lastUpdated,
		})
	}
	return rows
}

// OldestUpdate returns the minimum LastUpdated across rows.
// ok is false when rows is empty.
func OldestUpdate(rows []TickerRow) (oldest int64, ok bool) {
	for i, r := range rows {
		if i == 0 || r.LastUpdated < oldest {
			oldest = r.LastUpdated
		}
	}
	return oldest, len(rows) > 0
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
