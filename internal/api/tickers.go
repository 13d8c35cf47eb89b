package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rickgao/coinpulse/internal/decode"
	"github.com/rickgao/coinpulse/internal/model"
)

// Routes relative to the base URL.
const (
	TickersPath = "/tickers"
	LabelsPath  = "/conf/pub:map:currency:label"
	StatusPath  = "/platform/status"

	SymbolsKey = "symbols"
)

// FetchQuotes fetches ticker rows for the comma-joined trading symbols.
//
// A payload with no decodable rows is not a failure: it yields a nil slice
// and a nil error.
func (c *Client) FetchQuotes(ctx context.Context, symbolsCSV string) ([]model.QuoteRecord, error) {
	query := url.Values{}
	query.Set(SymbolsKey, symbolsCSV)

	body, err := c.get(ctx, TickersPath, query)
	if err != nil {
		return nil, err
	}

	quotes, err := c.decoder.Quotes(body)
	if err != nil {
		if errors.Is(err, decode.ErrNoRecords) {
			c.logger.Warn("tickers response has no usable rows", "err", err)
			return nil, nil
		}
		return nil, c.decodeFailure(TickersPath, err)
	}

	return quotes, nil
}

// FetchDisplayNames fetches the currency label map restricted to abbreviations.
// An empty abbreviations list keeps every label.
func (c *Client) FetchDisplayNames(ctx context.Context, abbreviations []string) (map[string]string, error) {
	body, err := c.get(ctx, LabelsPath, nil)
	if err != nil {
		return nil, err
	}

	names, err := c.decoder.DisplayNames(body, abbreviations)
	if err != nil {
		if errors.Is(err, decode.ErrNoRecords) {
			c.logger.Warn("label response has no usable entries", "err", err)
			return nil, nil
		}
		return nil, c.decodeFailure(LabelsPath, err)
	}

	return names, nil
}

// Ping checks that the platform reports itself operative.
func (c *Client) Ping(ctx context.Context) error {
	body, err := c.doRequest(ctx, http.MethodGet, StatusPath, nil)
	if err != nil {
		return err
	}

	// Response is [1] when operative and [0] during maintenance.
	status := strings.TrimSpace(string(body))
	if status != "[1]" {
		return &FetchError{Kind: KindServer, Path: StatusPath, Err: fmt.Errorf("platform status %s", status)}
	}
	return nil
}

func (c *Client) decodeFailure(path string, err error) error {
	fe := &FetchError{Kind: KindUnknown, Path: path, Err: fmt.Errorf("decode response: %w", err)}
	c.logFailure(fe)
	return fe
}
