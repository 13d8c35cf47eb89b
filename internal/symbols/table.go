// Package symbols holds the fixed mapping between currency abbreviations
// (e.g. "BTC") and exchange trading symbols (e.g. "tBTCUSD").
package symbols

import (
	"errors"
	"fmt"
	"strings"
)

// Pair maps one abbreviation to its trading symbol.
type Pair struct {
	Abbreviation  string `yaml:"abbreviation"`
	TradingSymbol string `yaml:"trading_symbol"`
}

// defaultPairs is the built-in set of tracked currencies.
var defaultPairs = []Pair{
	{"BTC", "tBTCUSD"},
	{"ETH", "tETHUSD"},
	{"JUP", "tJUPUSD"},
	{"AVAX", "tAVAX:USD"},
	{"BONK", "tBONK:USD"},
	{"BORG", "tBORG:USD"},
	{"CRV", "tCRVUSD"},
	{"DOGE", "tDOGE:USD"},
	{"DYM", "tDYMUSD"},
	{"MATIC", "tMATIC:USD"},
	{"SAND", "tSAND:USD"},
	{"SEI", "tSEIUSD"},
	{"SHIB", "tSHIB:USD"},
	{"SOL", "tSOLUSD"},
	{"UNI", "tUNIUSD"},
	{"VELAR", "tVELAR:USD"},
	{"WIF", "tWIFUSD"},
	{"XLM", "tXLMUSD"},
	{"ZRO", "tZROUSD"},
}

// Table is an immutable bidirectional lookup. Safe for concurrent use.
type Table struct {
	pairs    []Pair
	bySymbol map[string]string
	csv      string
}

// DefaultPairs returns a copy of the built-in pairs.
func DefaultPairs() []Pair {
	out := make([]Pair, len(defaultPairs))
	copy(out, defaultPairs)
	return out
}

// Default returns a table over the built-in pairs.
func Default() *Table {
	t, err := NewTable(defaultPairs)
	if err != nil {
		panic(err) // built-in table is injective
	}
	return t
}

// NewTable builds a table. Both sides of the mapping must be unique and non-empty.
func NewTable(pairs []Pair) (*Table, error) {
	if len(pairs) == 0 {
		return nil, errors.New("symbol table is empty")
	}

	t := &Table{
		pairs:    make([]Pair, 0, len(pairs)),
		bySymbol: make(map[string]string, len(pairs)),
	}
	seenAbbr := make(map[string]struct{}, len(pairs))
	symbols := make([]string, 0, len(pairs))

	for i, p := range pairs {
		if p.Abbreviation == "" || p.TradingSymbol == "" {
			return nil, fmt.Errorf("symbols[%d]: abbreviation and trading_symbol are required", i)
		}
		if _, dup := seenAbbr[p.Abbreviation]; dup {
			return nil, fmt.Errorf("symbols[%d]: duplicate abbreviation %q", i, p.Abbreviation)
		}
		if _, dup := t.bySymbol[p.TradingSymbol]; dup {
			return nil, fmt.Errorf("symbols[%d]: duplicate trading symbol %q", i, p.TradingSymbol)
		}
		seenAbbr[p.Abbreviation] = struct{}{}
		t.bySymbol[p.TradingSymbol] = p.Abbreviation
		t.pairs = append(t.pairs, p)
		symbols = append(symbols, p.TradingSymbol)
	}

	t.csv = strings.Join(symbols, ",")
	return t, nil
}

// TradingSymbolsCSV returns all trading symbols joined by commas.
func (t *Table) TradingSymbolsCSV() string {
	return t.csv
}

// Abbreviations returns all abbreviations in table order.
func (t *Table) Abbreviations() []string {
	out := make([]string, len(t.pairs))
	for i, p := range t.pairs {
		out[i] = p.Abbreviation
	}
	return out
}

// AbbreviationFor returns the abbreviation for a trading symbol.
func (t *Table) AbbreviationFor(tradingSymbol string) (string, bool) {
	abbr, ok := t.bySymbol[tradingSymbol]
	return abbr, ok
}

// Len returns the number of pairs.
func (t *Table) Len() int {
	return len(t.pairs)
}
