// Package sparql talks to a single SPARQL endpoint and hands back the raw
// serialized result of a query.
package sparql

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/icholy/digest"
)

// DefaultEndpoint is the Stadt Zürich linked-data endpoint.
const DefaultEndpoint = "https://ld.stadt-zuerich.ch/query"

// Format selects the serialization requested from the endpoint.
type Format string

const (
	FormatJSON   Format = "json"
	FormatN3     Format = "n3"
	FormatTurtle Format = "turtle"
	FormatXML    Format = "xml"
)

// Accept returns the Accept header value for f. Unknown formats fall back to JSON.
func (f Format) Accept() string {
	switch f {
	case FormatN3:
		return "text/n3, text/rdf+n3, application/rdf+xml;q=0.5"
	case FormatTurtle:
		return "text/turtle, application/x-turtle;q=0.9"
	case FormatXML:
		return "application/sparql-results+xml, application/rdf+xml;q=0.9"
	default:
		return "application/sparql-results+json, application/json;q=0.9"
	}
}

// Auth schemes supported by Client.
const (
	AuthNone   = "none"
	AuthBasic  = "basic"
	AuthDigest = "digest"
)

// RequestError is returned when the endpoint cannot be reached or answers
// with a non-2xx status.
type RequestError struct {
	Endpoint string
	Status   int    // 0 when no response was received
	Body     string // leading part of the response body
	Err      error
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("sparql request to %s failed: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("sparql endpoint %s returned %d: %s", e.Endpoint, e.Status, e.Body)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Client executes queries against one endpoint. It is safe for concurrent use.
type Client struct {
	endpoint   string
	auth       string
	user       string
	password   string
	httpClient *http.Client
}

// NewClientParams configures a Client.
//
// Auth is one of AuthNone, AuthBasic or AuthDigest; empty means AuthDigest
// when a user is set and AuthNone otherwise.
type NewClientParams struct {
	Endpoint string
	Auth     string
	User     string
	Password string
	Timeout  time.Duration

	// Transport overrides the base round tripper, mostly for tests.
	Transport http.RoundTripper
}

// NewClient creates a Client for the configured endpoint.
func NewClient(params NewClientParams) (*Client, error) {
	endpoint := params.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid sparql endpoint %q: %w", endpoint, err)
	}

	auth := strings.ToLower(params.Auth)
	if auth == "" {
		auth = AuthNone
		if params.User != "" {
			auth = AuthDigest
		}
	}

	base := params.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	var rt http.RoundTripper
	switch auth {
	case AuthNone, AuthBasic:
		rt = base
	case AuthDigest:
		rt = &digest.Transport{
			Username:  params.User,
			Password:  params.Password,
			Transport: base,
		}
	default:
		return nil, fmt.Errorf("unsupported sparql auth scheme %q", params.Auth)
	}

	return &Client{
		endpoint: endpoint,
		auth:     auth,
		user:     params.User,
		password: params.Password,
		httpClient: &http.Client{
			Transport: rt,
			Timeout:   params.Timeout,
		},
	}, nil
}

// Endpoint returns the URL queries are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Execute POSTs query form-encoded to the endpoint and returns the response
// body exactly as received.
func (c *Client) Execute(ctx context.Context, query string, format Format) ([]byte, error) {
	form := url.Values{}
	form.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &RequestError{Endpoint: c.endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", format.Accept())
	if c.auth == AuthBasic {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Endpoint: c.endpoint, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{
			Endpoint: c.endpoint,
			Status:   resp.StatusCode,
			Body:     truncate(string(body), 512),
			Err:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
