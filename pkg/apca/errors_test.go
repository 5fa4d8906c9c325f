package apca_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmic-lab-inc/apca/pkg/apca"
)

func classifiedError(status int, body string) error {
	endpoint := &apca.Endpoint[struct{}, struct{}]{
		Path: func(struct{}) string { return "/v2/stocks/AAPL/trades" },
		Errors: apca.NewStatusTable(map[int]apca.ErrorKind{
			http.StatusBadRequest: apca.ErrorKindInvalidInput,
		}),
	}

	_, err := endpoint.ClassifyResponse(status, []byte(body))

	return err
}

func TestAPIError_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"service message", `{"message":"invalid symbol"}`, "invalid symbol"},
		{"no message field", `{"error":"nope"}`, ""},
		{"not json", "<html></html>", ""},
		{"empty body", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := classifiedError(http.StatusBadRequest, tt.body)
			require.Error(t, err)

			apiErr := &apca.APIError{}
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.expected, apiErr.Message())
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	err := classifiedError(http.StatusBadRequest, `{"message":"invalid symbol"}`)
	require.Error(t, err)
	assert.Equal(t, "invalid_input (status 400): invalid symbol", err.Error())

	err = classifiedError(http.StatusTooManyRequests, "")
	require.Error(t, err)
	assert.Equal(t, "rate_limit_exceeded (status 429)", err.Error())
}

func TestKindHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		matches func(error) bool
		others  []func(error) bool
	}{
		{
			name:    "authentication failed",
			err:     classifiedError(http.StatusUnauthorized, ""),
			matches: apca.IsAuthenticationFailed,
			others:  []func(error) bool{apca.IsRateLimitExceeded, apca.IsInvalidInput},
		},
		{
			name:    "rate limit",
			err:     classifiedError(http.StatusTooManyRequests, ""),
			matches: apca.IsRateLimitExceeded,
			others:  []func(error) bool{apca.IsAuthenticationFailed, apca.IsUnexpectedStatus},
		},
		{
			name:    "invalid input",
			err:     classifiedError(http.StatusBadRequest, ""),
			matches: apca.IsInvalidInput,
			others:  []func(error) bool{apca.IsNotPermitted, apca.IsNotFound},
		},
		{
			name:    "unexpected status",
			err:     classifiedError(http.StatusBadGateway, ""),
			matches: apca.IsUnexpectedStatus,
			others:  []func(error) bool{apca.IsInvalidInput, apca.IsTransportFailure},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.True(t, tt.matches(tt.err))
			for _, other := range tt.others {
				assert.False(t, other(tt.err))
			}
		})
	}
}

func TestKindHelpers_WrappedError(t *testing.T) {
	t.Parallel()

	err := classifiedError(http.StatusUnauthorized, "")
	wrapped := fmt.Errorf("listing trades: %w", err)

	assert.True(t, apca.IsAuthenticationFailed(wrapped))
}

func TestKindHelpers_NonAPIError(t *testing.T) {
	t.Parallel()

	assert.False(t, apca.IsAuthenticationFailed(apca.ErrNoMorePages))
	assert.False(t, apca.IsInvalidInput(nil))
}
