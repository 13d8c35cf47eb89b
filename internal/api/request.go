package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// get performs a single GET request and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	body, err := c.doRequest(ctx, http.MethodGet, path, query)
	if err != nil {
		c.logFailure(err)
		return nil, err
	}
	return body, nil
}

// doRequest performs an HTTP request with the given method and path.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindUnknown, Path: path, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Path: path, Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Path: path, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{
			Kind:       kindForStatus(resp.StatusCode),
			Path:       path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       body,
		}
	}

	return body, nil
}

// logFailure emits one diagnostic entry per failure classification.
func (c *Client) logFailure(err error) {
	fe, ok := err.(*FetchError)
	if !ok {
		c.logger.Error("unexpected error", "err", err)
		return
	}

	switch fe.Kind {
	case KindRedirect:
		c.logger.Error("redirect response", "path", fe.Path, "status", fe.Status)
	case KindClient:
		c.logger.Error("client request error", "path", fe.Path, "status", fe.Status)
	case KindServer:
		c.logger.Error("server error", "path", fe.Path, "status", fe.Status)
	case KindTransport:
		c.logger.Error("transport error", "path", fe.Path, "err", fe.Err)
	default:
		c.logger.Error("unexpected error", "path", fe.Path, "err", fe.Err)
	}
}
