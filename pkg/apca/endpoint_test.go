package apca_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmic-lab-inc/apca/pkg/apca"
)

type payload struct {
	Value string `json:"value"`
}

func testEndpoint() *apca.Endpoint[string, payload] {
	return &apca.Endpoint[string, payload]{
		Path: func(symbol string) string {
			return "/v2/stocks/" + symbol + "/trades"
		},
		Errors: apca.NewStatusTable(map[int]apca.ErrorKind{
			http.StatusBadRequest: apca.ErrorKindInvalidInput,
			http.StatusForbidden:  apca.ErrorKindNotPermitted,
		}),
	}
}

func TestStatusTable_Classify(t *testing.T) {
	t.Parallel()

	table := apca.NewStatusTable(map[int]apca.ErrorKind{
		http.StatusBadRequest: apca.ErrorKindInvalidInput,
		http.StatusForbidden:  apca.ErrorKindNotPermitted,
		http.StatusNotFound:   apca.ErrorKindNotFound,
	})

	tests := []struct {
		name     string
		status   int
		expected apca.ErrorKind
	}{
		{"tabled 400", http.StatusBadRequest, apca.ErrorKindInvalidInput},
		{"tabled 403", http.StatusForbidden, apca.ErrorKindNotPermitted},
		{"tabled 404", http.StatusNotFound, apca.ErrorKindNotFound},
		{"universal 401", http.StatusUnauthorized, apca.ErrorKindAuthenticationFailed},
		{"universal 429", http.StatusTooManyRequests, apca.ErrorKindRateLimitExceeded},
		{"untabled 500", http.StatusInternalServerError, apca.ErrorKindUnexpectedStatus},
		{"untabled 418", http.StatusTeapot, apca.ErrorKindUnexpectedStatus},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, table.Classify(tt.status))
		})
	}
}

func TestStatusTable_UniversalEntriesCannotBeRemapped(t *testing.T) {
	t.Parallel()

	// A table that tries to claim 401 and 429 for other kinds
	table := apca.NewStatusTable(map[int]apca.ErrorKind{
		http.StatusUnauthorized:    apca.ErrorKindInvalidInput,
		http.StatusTooManyRequests: apca.ErrorKindNotFound,
	})

	assert.Equal(t, apca.ErrorKindAuthenticationFailed, table.Classify(http.StatusUnauthorized))
	assert.Equal(t, apca.ErrorKindRateLimitExceeded, table.Classify(http.StatusTooManyRequests))
}

func TestStatusTable_ZeroValueStillClassifies(t *testing.T) {
	t.Parallel()

	var table apca.StatusTable

	assert.Equal(t, apca.ErrorKindAuthenticationFailed, table.Classify(http.StatusUnauthorized))
	assert.Equal(t, apca.ErrorKindRateLimitExceeded, table.Classify(http.StatusTooManyRequests))
	assert.Equal(t, apca.ErrorKindUnexpectedStatus, table.Classify(http.StatusBadGateway))
}

func TestEndpoint_NewRequest(t *testing.T) {
	t.Parallel()

	endpoint := testEndpoint()
	endpoint.RawQuery = func(string) string {
		return "limit=2&start=2018-12-03T00%3A00%3A00Z"
	}

	creds := apca.Credentials{KeyID: "key-id", Secret: "secret"}

	req, err := endpoint.NewRequest(context.Background(), "https://data.alpaca.markets", creds, "AAPL")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "https", req.URL.Scheme)
	assert.Equal(t, "data.alpaca.markets", req.URL.Host)
	assert.Equal(t, "/v2/stocks/AAPL/trades", req.URL.Path)
	assert.Equal(t, "limit=2&start=2018-12-03T00%3A00%3A00Z", req.URL.RawQuery)
	assert.Equal(t, "key-id", req.Header.Get("APCA-API-KEY-ID"))
	assert.Equal(t, "secret", req.Header.Get("APCA-API-SECRET-KEY"))
	assert.Empty(t, req.Header.Get("Content-Type"))
}

func TestEndpoint_NewRequest_NoQuery(t *testing.T) {
	t.Parallel()

	endpoint := testEndpoint()

	req, err := endpoint.NewRequest(context.Background(), "https://data.alpaca.markets", apca.Credentials{}, "AAPL")
	require.NoError(t, err)

	assert.Empty(t, req.URL.RawQuery)
}

func TestEndpoint_NewRequest_BadBaseURL(t *testing.T) {
	t.Parallel()

	endpoint := testEndpoint()

	_, err := endpoint.NewRequest(context.Background(), "://not-a-url", apca.Credentials{}, "AAPL")
	require.Error(t, err)
	assert.True(t, apca.IsTransportFailure(err))
}

func TestEndpoint_NewRequest_MissingPath(t *testing.T) {
	t.Parallel()

	endpoint := &apca.Endpoint[string, payload]{}

	_, err := endpoint.NewRequest(context.Background(), "https://data.alpaca.markets", apca.Credentials{}, "AAPL")
	require.Error(t, err)
	assert.True(t, apca.IsTransportFailure(err))
	assert.ErrorIs(t, err, apca.ErrEndpointPathFunc)
}

func TestEndpoint_NewRequest_BodySerializationFailure(t *testing.T) {
	t.Parallel()

	errBody := errors.New("cannot serialize")
	endpoint := testEndpoint()
	endpoint.Body = func(string) ([]byte, error) {
		return nil, errBody
	}

	_, err := endpoint.NewRequest(context.Background(), "https://data.alpaca.markets", apca.Credentials{}, "AAPL")
	require.Error(t, err)
	assert.True(t, apca.IsDecodeFailure(err))
	assert.ErrorIs(t, err, errBody)
}

func TestEndpoint_NewRequest_BodySetsContentType(t *testing.T) {
	t.Parallel()

	endpoint := testEndpoint()
	endpoint.Method = http.MethodPost
	endpoint.Body = func(string) ([]byte, error) {
		return []byte(`{"hello":"world"}`), nil
	}

	req, err := endpoint.NewRequest(context.Background(), "https://data.alpaca.markets", apca.Credentials{}, "AAPL")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
}

func TestEndpoint_ClassifyResponse_Success(t *testing.T) {
	t.Parallel()

	endpoint := testEndpoint()

	out, err := endpoint.ClassifyResponse(http.StatusOK, []byte(`{"value":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Value)
}

func TestEndpoint_ClassifyResponse_DecodeFailureCarriesBody(t *testing.T) {
	t.Parallel()

	endpoint := testEndpoint()
	garbage := []byte("<html>not json</html>")

	_, err := endpoint.ClassifyResponse(http.StatusOK, garbage)
	require.Error(t, err)
	assert.True(t, apca.IsDecodeFailure(err))

	apiErr := &apca.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, garbage, apiErr.Body)
}

func TestEndpoint_ClassifyResponse_StatusErrors(t *testing.T) {
	t.Parallel()

	endpoint := testEndpoint()
	body := []byte(`{"message":"invalid symbol"}`)

	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"400 invalid input", http.StatusBadRequest, apca.IsInvalidInput},
		{"403 not permitted", http.StatusForbidden, apca.IsNotPermitted},
		{"401 authentication", http.StatusUnauthorized, apca.IsAuthenticationFailed},
		{"429 rate limit", http.StatusTooManyRequests, apca.IsRateLimitExceeded},
		{"503 unexpected", http.StatusServiceUnavailable, apca.IsUnexpectedStatus},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := endpoint.ClassifyResponse(tt.status, body)
			require.Error(t, err)
			assert.True(t, tt.check(err))

			apiErr := &apca.APIError{}
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, body, apiErr.Body)
		})
	}
}

func TestEndpoint_ClassifyResponse_ParseNotInvokedOnError(t *testing.T) {
	t.Parallel()

	parsed := false
	endpoint := testEndpoint()
	endpoint.Parse = func(body []byte) (payload, error) {
		parsed = true

		var out payload

		return out, json.Unmarshal(body, &out)
	}

	_, err := endpoint.ClassifyResponse(http.StatusBadRequest, []byte(`{"value":"x"}`))
	require.Error(t, err)
	assert.False(t, parsed)
}

func TestEndpoint_ClassifyResponse_CustomSuccessSet(t *testing.T) {
	t.Parallel()

	endpoint := testEndpoint()
	endpoint.Success = []int{http.StatusOK, http.StatusPartialContent}

	out, err := endpoint.ClassifyResponse(http.StatusPartialContent, []byte(`{"value":"partial"}`))
	require.NoError(t, err)
	assert.Equal(t, "partial", out.Value)
}

type fakeTransport struct {
	response *apca.Response
	err      error
	lastReq  *http.Request
}

func (t *fakeTransport) Do(req *http.Request) (*apca.Response, error) {
	t.lastReq = req

	if t.err != nil {
		return nil, t.err
	}

	return t.response, nil
}

func TestCall(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		response: &apca.Response{
			StatusCode: http.StatusOK,
			Body:       []byte(`{"value":"ok"}`),
		},
	}

	out, err := apca.Call(context.Background(), transport, testEndpoint(),
		"https://data.alpaca.markets", apca.Credentials{KeyID: "k", Secret: "s"}, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Value)
	assert.Equal(t, "/v2/stocks/AAPL/trades", transport.lastReq.URL.Path)
	assert.Equal(t, "k", transport.lastReq.Header.Get("APCA-API-KEY-ID"))
}

func TestCall_TransportError(t *testing.T) {
	t.Parallel()

	errNetwork := errors.New("connection refused")
	transport := &fakeTransport{err: errNetwork}

	_, err := apca.Call(context.Background(), transport, testEndpoint(),
		"https://data.alpaca.markets", apca.Credentials{}, "AAPL")
	require.Error(t, err)
	assert.True(t, apca.IsTransportFailure(err))
	assert.ErrorIs(t, err, errNetwork)
}
