package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cosmic-lab-inc/apca/pkg/apca"
)

// listTrades declares the GET {prefix}{symbol}/trades endpoint. The table
// carries the statuses the service documents for it; 401 and 429 are implied
// on every endpoint.
var listTrades = &apca.Endpoint[*apca.ListRequest, *apca.TradePage]{
	Path: func(req *apca.ListRequest) string {
		return req.Prefix.Path() + req.Symbol + "/trades"
	},
	RawQuery: func(req *apca.ListRequest) string {
		return req.Values().Encode()
	},
	Errors: apca.NewStatusTable(map[int]apca.ErrorKind{
		http.StatusBadRequest: apca.ErrorKindInvalidInput,
		http.StatusForbidden:  apca.ErrorKindNotPermitted,
	}),
}

// TradesClient implements apca.TradesClient.
type TradesClient struct {
	transport apca.Transport
	baseURL   string
	creds     apca.Credentials
}

// NewTradesClient creates a new trades client.
func NewTradesClient(transport apca.Transport, baseURL string, creds apca.Credentials) *TradesClient {
	return &TradesClient{transport: transport, baseURL: baseURL, creds: creds}
}

// List implements apca.TradesClient.List.
func (c *TradesClient) List(ctx context.Context, req *apca.ListRequest) (*apca.TradePage, error) {
	page, err := apca.Call(ctx, c.transport, listTrades, c.baseURL, c.creds, req)
	if err != nil {
		return nil, fmt.Errorf("listing trades: %w", err)
	}

	return page, nil
}

// ListAll implements apca.TradesClient.ListAll.
func (c *TradesClient) ListAll(ctx context.Context, req *apca.ListRequest) ([]apca.Trade, error) {
	return c.Pages(req).All(ctx)
}

// Pages implements apca.TradesClient.Pages.
func (c *TradesClient) Pages(req *apca.ListRequest) *apca.PageIterator[apca.Trade] {
	return apca.NewPageIterator(func(ctx context.Context, pageToken string) ([]apca.Trade, *string, error) {
		paged := *req
		if pageToken != "" {
			paged.PageToken = pageToken
		}

		page, err := c.List(ctx, &paged)
		if err != nil {
			return nil, nil, err
		}

		return page.Trades, page.NextPageToken, nil
	})
}
