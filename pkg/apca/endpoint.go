package apca

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Header names the service expects on every request. The credentials travel
// verbatim; the service performs no request signing.
const (
	HeaderKeyID  = "APCA-API-KEY-ID"
	HeaderSecret = "APCA-API-SECRET-KEY"
)

// Credentials carries the key id and secret injected into request headers.
type Credentials struct {
	KeyID  string
	Secret string
}

// StatusTable maps HTTP status codes to error kinds for one endpoint. Status
// 401 always classifies as AuthenticationFailed and 429 as RateLimitExceeded;
// a table cannot remap them. Any status absent from the table classifies as
// UnexpectedStatus.
type StatusTable struct {
	entries map[int]ErrorKind
}

// NewStatusTable builds a table from the endpoint's declared entries. Entries
// for 401 and 429 are dropped in favor of the universal classification.
func NewStatusTable(entries map[int]ErrorKind) StatusTable {
	merged := make(map[int]ErrorKind, len(entries))

	for status, kind := range entries {
		if status == http.StatusUnauthorized || status == http.StatusTooManyRequests {
			continue
		}

		merged[status] = kind
	}

	return StatusTable{entries: merged}
}

// Classify returns the error kind for a non-success status. The mapping is
// total; a zero-valued table still classifies the universal statuses.
func (t StatusTable) Classify(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return ErrorKindAuthenticationFailed
	case http.StatusTooManyRequests:
		return ErrorKindRateLimitExceeded
	}

	if kind, ok := t.entries[status]; ok {
		return kind
	}

	return ErrorKindUnexpectedStatus
}

// Endpoint declares one HTTP operation against the service: how a typed input
// becomes a request, which statuses count as success, how a success body
// parses into the output, and how every other status classifies into the
// error taxonomy. An endpoint value is pure configuration and performs no I/O
// of its own.
type Endpoint[I, O any] struct {
	// Method defaults to GET when empty.
	Method string
	// Path computes the URL path from the input. Required.
	Path func(input I) string
	// RawQuery computes the encoded query string. Nil, or an empty result,
	// means the URL carries no query at all.
	RawQuery func(input I) string
	// Body serializes the request body. Nil means an empty body. A serialization
	// failure surfaces as a decode failure, never silently.
	Body func(input I) ([]byte, error)
	// Parse decodes a success body. Nil decodes the body as JSON into O.
	Parse func(body []byte) (O, error)
	// Success lists the statuses handled by Parse. Empty means {200}.
	Success []int
	// Errors maps the endpoint's declared failure statuses to error kinds.
	Errors StatusTable
}

func (e *Endpoint[I, O]) method() string {
	if e.Method == "" {
		return http.MethodGet
	}

	return e.Method
}

// NewRequest assembles a transport-ready request for the given input: the base
// URL with path and query replaced by the endpoint's, the credential headers,
// and the endpoint body. A structurally invalid URL is a local transport-class
// failure, distinct from network errors.
func (e *Endpoint[I, O]) NewRequest(ctx context.Context, baseURL string, creds Credentials, input I) (*http.Request, error) {
	if e.Path == nil {
		return nil, newTransportError(ErrEndpointPathFunc)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, newTransportError(fmt.Errorf("parsing base URL: %w", err))
	}

	target := *base
	target.Path = e.Path(input)
	target.RawQuery = ""

	if e.RawQuery != nil {
		target.RawQuery = e.RawQuery(input)
	}

	var body []byte

	if e.Body != nil {
		body, err = e.Body(input)
		if err != nil {
			return nil, newDecodeError(nil, fmt.Errorf("serializing request body: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, e.method(), target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, newTransportError(fmt.Errorf("building request: %w", err))
	}

	req.Header.Set(HeaderKeyID, creds.KeyID)
	req.Header.Set(HeaderSecret, creds.Secret)

	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// ClassifyResponse converts a (status, body) pair into the endpoint's typed
// result. The classification is total: a declared success status parses the
// body, a tabled status (including the universal 401/429) yields its variant,
// and anything else yields UnexpectedStatus. Parse is never invoked for a
// non-success status.
func (e *Endpoint[I, O]) ClassifyResponse(status int, body []byte) (O, error) {
	var zero O

	for _, ok := range e.successSet() {
		if status == ok {
			out, err := e.parse(body)
			if err != nil {
				return zero, newDecodeError(body, err)
			}

			return out, nil
		}
	}

	return zero, newStatusError(e.Errors.Classify(status), status, body)
}

func (e *Endpoint[I, O]) successSet() []int {
	if len(e.Success) == 0 {
		return []int{http.StatusOK}
	}

	return e.Success
}

func (e *Endpoint[I, O]) parse(body []byte) (O, error) {
	if e.Parse != nil {
		return e.Parse(body)
	}

	var out O

	err := json.Unmarshal(body, &out)
	if err != nil {
		return out, fmt.Errorf("parsing response: %w", err)
	}

	return out, nil
}

// Response is the raw outcome a transport hands to the classifier.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Transport executes a fully formed request and reports the raw status and
// body. Implementations own connection management, retries, and rate
// limiting; this layer never opens a connection itself.
type Transport interface {
	Do(req *http.Request) (*Response, error)
}

// Call issues a single endpoint invocation: assemble the request, execute it
// over the transport, classify the response. Concurrent calls need no
// coordination; the endpoint and classifier are pure functions of their
// inputs.
func Call[I, O any](ctx context.Context, transport Transport, endpoint *Endpoint[I, O], baseURL string, creds Credentials, input I) (O, error) {
	var zero O

	req, err := endpoint.NewRequest(ctx, baseURL, creds, input)
	if err != nil {
		return zero, err
	}

	resp, err := transport.Do(req)
	if err != nil {
		return zero, newTransportError(err)
	}

	return endpoint.ClassifyResponse(resp.StatusCode, resp.Body)
}
