// Package apiclient is the gateway's only door to the REST backend. It picks
// the credential for each call, never retries and never caches.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/khalef-khalil/nkcommerce/internal/credentials"
)

// backendSessionCookie is the backend's anonymous session cookie, relayed
// through the Visitor scope.
const backendSessionCookie = "sessionid"

// Client performs backend calls on behalf of one credential store.
type Client struct {
	baseURL string
	http    *http.Client
	store   credentials.Store
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTracing wraps the transport with OpenTelemetry instrumentation.
func WithTracing() Option {
	return func(c *Client) {
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.http.Transport = otelhttp.NewTransport(base)
	}
}

// New creates a Client for the backend rooted at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithStore returns a copy of c that reads and writes credentials in store.
func (c *Client) WithStore(store credentials.Store) *Client {
	clone := *c
	clone.store = store
	return &clone
}

// Call describes one backend request.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Scope forces the credential scope. Empty means "by URL convention".
	Scope credentials.Scope
	// Credential, when set, is sent as is and overrides Scope.
	Credential string
}

// AdminScoped reports whether path belongs to the admin-only API by URL
// convention.
func AdminScoped(path string) bool {
	return strings.Contains(path, "/admin/") ||
		strings.Contains(path, "/stats/") ||
		strings.HasSuffix(path, "/confirm/")
}

func (c *Client) credentialFor(call Call) string {
	if call.Credential != "" {
		return call.Credential
	}
	if c.store == nil {
		return ""
	}
	switch call.Scope {
	case credentials.Admin, credentials.Shopper:
		token, _ := c.store.Get(call.Scope)
		return token
	}
	if AdminScoped(call.Path) {
		if token, ok := c.store.Get(credentials.Admin); ok {
			return token
		}
	}
	token, _ := c.store.Get(credentials.Shopper)
	return token
}

// Do sends call and decodes a 2xx JSON body into out when out is non-nil.
// Non-2xx responses come back as *APIError.
func (c *Client) Do(ctx context.Context, call Call, out any) error {
	method := call.Method
	if method == "" {
		method = http.MethodGet
	}
	target := c.baseURL + call.Path
	if len(call.Query) > 0 {
		target += "?" + call.Query.Encode()
	}

	var body io.Reader
	if call.Body != nil {
		payload, err := json.Marshal(call.Body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, call.Path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build %s %s: %w", method, call.Path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token := c.credentialFor(call); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	if c.store != nil {
		if sid, ok := c.store.Get(credentials.Visitor); ok {
			req.AddCookie(&http.Cookie{Name: backendSessionCookie, Value: sid})
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, call.Path, err)
	}
	defer resp.Body.Close()

	c.captureVisitor(resp)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s %s: %v", ErrTransport, method, call.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Method:  method,
			Path:    call.Path,
			Status:  resp.StatusCode,
			Message: backendMessage(resp.StatusCode, raw),
		}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decoding %s %s: %v", ErrUnexpected, method, call.Path, err)
	}
	return nil
}

func (c *Client) captureVisitor(resp *http.Response) {
	if c.store == nil {
		return
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name != backendSessionCookie || cookie.Value == "" {
			continue
		}
		if current, ok := c.store.Get(credentials.Visitor); ok && current == cookie.Value {
			return
		}
		if err := c.store.Set(credentials.Visitor, cookie.Value); err != nil {
			log.Printf("Error relaying backend session cookie: %v", err)
		}
		return
	}
}

// decodeList accepts both a bare JSON array and a paginated
// {"results": [...]} envelope.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '{' {
		var page struct {
			Results []T `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpected, err)
		}
		if page.Results == nil {
			return []T{}, nil
		}
		return page.Results, nil
	}
	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	return items, nil
}

func getList[T any](ctx context.Context, c *Client, call Call) ([]T, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, call, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw)
}
