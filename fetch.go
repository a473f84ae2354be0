package airdrive

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// fetch GETs the whole body at u. Responses with an error status are failures.
func (d *Drive) fetch(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == 0 || resp.StatusCode >= 400 {
		return nil, httpError(req.Method, resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return b, nil
}

// httpError represents an HTTP error with its status code
func httpError(method string, statusCode int) error {
	return httpErr{
		method:     method,
		statusCode: statusCode,
	}
}

type httpErr struct {
	method     string
	statusCode int
}

func (e httpErr) Error() string {
	return fmt.Sprintf("http %s failed with status %d", e.method, e.statusCode)
}

func (e httpErr) StatusCode() int {
	return e.statusCode
}
