// Package loader retrieves the company dataset once and exposes the
// loading, error and ready states of that retrieval.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"company-directory/internal/core"
)

// DefaultURL is where the data-source server publishes the dataset.
const DefaultURL = "http://localhost:8080/companies.json"

// HTTPFetcher GETs the dataset from a fixed URL.
type HTTPFetcher struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPFetcher creates a fetcher. A nil client gets a default with the
// given timeout; a zero timeout means no timeout beyond the transport's.
func NewHTTPFetcher(url string, client *http.Client, timeout time.Duration, logger *zap.Logger) *HTTPFetcher {
	if url == "" {
		url = DefaultURL
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPFetcher{url: url, client: client, logger: logger}
}

// Fetch performs the GET. Transport errors, non-2xx statuses and bodies that
// are not JSON fail with core.ErrFetchFailure. A JSON body that is not an
// array is treated as an empty dataset.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]core.Company, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFetchFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", core.ErrFetchFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", core.ErrFetchFailure, err)
	}

	return f.decode(body)
}

func (f *HTTPFetcher) decode(body []byte) ([]core.Company, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", core.ErrFetchFailure, err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		f.logger.Debug("Payload is not an array, using empty dataset", zap.String("url", f.url))
		return []core.Company{}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", core.ErrFetchFailure, err)
	}

	companies := make([]core.Company, 0, len(elems))
	for i, elem := range elems {
		if bytes.Equal(bytes.TrimSpace(elem), []byte("null")) {
			f.logger.Warn("Skipping null record", zap.Int("index", i))
			continue
		}
		var c core.Company
		if err := json.Unmarshal(elem, &c); err != nil {
			f.logger.Warn("Skipping malformed record", zap.Int("index", i), zap.Error(err))
			continue
		}
		companies = append(companies, c)
	}
	return companies, nil
}
