// Where: internal/infra/repository/http.go
// What: HTTP repository (GET to fetch, PUT to upload).
// Why: Maven and Ivy remotes speak plain HTTP; a 404 is the not-found signal.
package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPRepository talks to a Maven/Ivy compatible HTTP endpoint.
type HTTPRepository struct {
	base
	baseURL  string
	client   *http.Client
	username string
	password string
}

// HTTPOption customises an HTTPRepository.
type HTTPOption func(*HTTPRepository)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(r *HTTPRepository) {
		if client != nil {
			r.client = client
		}
	}
}

// WithBasicAuth sets credentials sent with every request.
func WithBasicAuth(username, password string) HTTPOption {
	return func(r *HTTPRepository) {
		r.username = username
		r.password = password
	}
}

func NewHTTPRepository(name, baseURL string, layout Layout, skipGate bool, opts ...HTTPOption) *HTTPRepository {
	r := &HTTPRepository{
		base:    base{name: name, layout: layout, skipGate: skipGate},
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *HTTPRepository) URL(p string) string {
	return r.baseURL + "/" + strings.TrimPrefix(p, "/")
}

// Fetch makes a single attempt. 404 and 410 map to ErrNotFound.
func (r *HTTPRepository) Fetch(ctx context.Context, p string) ([]byte, error) {
	url := r.URL(p)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	r.authorize(req)
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}

func (r *HTTPRepository) Put(ctx context.Context, p string, data []byte) error {
	url := r.URL(p)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = int64(len(data))
	req.Header.Set("Content-Type", contentType(p))
	r.authorize(req)
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("put %s: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("put %s: unexpected status %d", url, resp.StatusCode)
	}
	return nil
}

func (r *HTTPRepository) authorize(req *http.Request) {
	if r.username != "" {
		req.SetBasicAuth(r.username, r.password)
	}
}
