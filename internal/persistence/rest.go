package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spec-kit/guest-list/internal/config"
)

const restPrefix = "rest/v1/"

// RESTError is a non-2xx answer from the hosted store.
type RESTError struct {
	Status  int
	Code    string
	Message string
}

func (e *RESTError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store responded %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("store responded %d: %s", e.Status, e.Message)
}

// REST is a client for a PostgREST-style hosted backend (e.g. Supabase).
// One client is shared by the whole process.
type REST struct {
	baseURL *url.URL
	key     string
	client  *http.Client
}

// NewREST builds a client from the store endpoint and access key.
func NewREST(cfg config.StoreConfig) (*REST, error) {
	if strings.TrimSpace(cfg.URL) == "" || strings.TrimSpace(cfg.Key) == "" {
		return nil, errors.New("store url and key are required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse store url: %w", err)
	}
	return &REST{
		baseURL: base,
		key:     cfg.Key,
		client:  &http.Client{Timeout: cfg.Timeout()},
	}, nil
}

// NewRequest builds an authenticated request for table. A non-nil body is JSON encoded.
func (r *REST) NewRequest(ctx context.Context, method, table string, query url.Values, body any) (*http.Request, error) {
	u := r.baseURL.JoinPath(restPrefix, table)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", r.key)
	req.Header.Set("Authorization", "Bearer "+r.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Do sends req and decodes a JSON 2xx body into out when out is non-nil.
func (r *REST) Do(req *http.Request, out any) error {
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeRESTError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode store response: %w", err)
	}
	return nil
}

// Ping requests the API root, which PostgREST answers for any valid key.
func (r *REST) Ping(ctx context.Context) error {
	req, err := r.NewRequest(ctx, http.MethodGet, "", nil, nil)
	if err != nil {
		return err
	}
	return r.Do(req, nil)
}

func decodeRESTError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	restErr := &RESTError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		restErr.Code = body.Code
		restErr.Message = body.Message
	} else if text := strings.TrimSpace(string(raw)); text != "" {
		restErr.Message = text
	}
	return restErr
}
