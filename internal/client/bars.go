package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cosmic-lab-inc/apca/pkg/apca"
)

// listBars declares the GET {prefix}{symbol}/bars endpoint. Identical shape to
// trades and quotes, plus the timeframe query parameter.
var listBars = &apca.Endpoint[*apca.BarsRequest, *apca.BarPage]{
	Path: func(req *apca.BarsRequest) string {
		return req.Prefix.Path() + req.Symbol + "/bars"
	},
	RawQuery: func(req *apca.BarsRequest) string {
		return req.Values().Encode()
	},
	Errors: apca.NewStatusTable(map[int]apca.ErrorKind{
		http.StatusBadRequest: apca.ErrorKindInvalidInput,
		http.StatusForbidden:  apca.ErrorKindNotPermitted,
	}),
}

// BarsClient implements apca.BarsClient.
type BarsClient struct {
	transport apca.Transport
	baseURL   string
	creds     apca.Credentials
}

// NewBarsClient creates a new bars client.
func NewBarsClient(transport apca.Transport, baseURL string, creds apca.Credentials) *BarsClient {
	return &BarsClient{transport: transport, baseURL: baseURL, creds: creds}
}

// List implements apca.BarsClient.List.
func (c *BarsClient) List(ctx context.Context, req *apca.BarsRequest) (*apca.BarPage, error) {
	page, err := apca.Call(ctx, c.transport, listBars, c.baseURL, c.creds, req)
	if err != nil {
		return nil, fmt.Errorf("listing bars: %w", err)
	}

	return page, nil
}

// ListAll implements apca.BarsClient.ListAll.
func (c *BarsClient) ListAll(ctx context.Context, req *apca.BarsRequest) ([]apca.Bar, error) {
	return c.Pages(req).All(ctx)
}

// Pages implements apca.BarsClient.Pages.
func (c *BarsClient) Pages(req *apca.BarsRequest) *apca.PageIterator[apca.Bar] {
	return apca.NewPageIterator(func(ctx context.Context, pageToken string) ([]apca.Bar, *string, error) {
		paged := *req
		if pageToken != "" {
			paged.PageToken = pageToken
		}

		page, err := c.List(ctx, &paged)
		if err != nil {
			return nil, nil, err
		}

		return page.Bars, page.NextPageToken, nil
	})
}
