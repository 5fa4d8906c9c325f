package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cosmic-lab-inc/apca/pkg/apca"
)

// listQuotes declares the GET {prefix}{symbol}/quotes endpoint.
var listQuotes = &apca.Endpoint[*apca.ListRequest, *apca.QuotePage]{
	Path: func(req *apca.ListRequest) string {
		return req.Prefix.Path() + req.Symbol + "/quotes"
	},
	RawQuery: func(req *apca.ListRequest) string {
		return req.Values().Encode()
	},
	Errors: apca.NewStatusTable(map[int]apca.ErrorKind{
		http.StatusBadRequest: apca.ErrorKindInvalidInput,
		http.StatusForbidden:  apca.ErrorKindNotPermitted,
	}),
}

// latestQuote declares the GET {prefix}{symbol}/quotes/latest endpoint. Not a
// list endpoint: no cursor, a single quote in the body.
var latestQuote = &apca.Endpoint[*apca.LatestQuoteRequest, *apca.LatestQuote]{
	Path: func(req *apca.LatestQuoteRequest) string {
		return req.Prefix.Path() + req.Symbol + "/quotes/latest"
	},
	RawQuery: func(req *apca.LatestQuoteRequest) string {
		return req.Values().Encode()
	},
	Errors: apca.NewStatusTable(map[int]apca.ErrorKind{
		http.StatusBadRequest: apca.ErrorKindInvalidInput,
		http.StatusForbidden:  apca.ErrorKindNotPermitted,
		http.StatusNotFound:   apca.ErrorKindNotFound,
	}),
}

// QuotesClient implements apca.QuotesClient.
type QuotesClient struct {
	transport apca.Transport
	baseURL   string
	creds     apca.Credentials
}

// NewQuotesClient creates a new quotes client.
func NewQuotesClient(transport apca.Transport, baseURL string, creds apca.Credentials) *QuotesClient {
	return &QuotesClient{transport: transport, baseURL: baseURL, creds: creds}
}

// List implements apca.QuotesClient.List.
func (c *QuotesClient) List(ctx context.Context, req *apca.ListRequest) (*apca.QuotePage, error) {
	page, err := apca.Call(ctx, c.transport, listQuotes, c.baseURL, c.creds, req)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}

	return page, nil
}

// ListAll implements apca.QuotesClient.ListAll.
func (c *QuotesClient) ListAll(ctx context.Context, req *apca.ListRequest) ([]apca.Quote, error) {
	return c.Pages(req).All(ctx)
}

// Pages implements apca.QuotesClient.Pages.
func (c *QuotesClient) Pages(req *apca.ListRequest) *apca.PageIterator[apca.Quote] {
	return apca.NewPageIterator(func(ctx context.Context, pageToken string) ([]apca.Quote, *string, error) {
		paged := *req
		if pageToken != "" {
			paged.PageToken = pageToken
		}

		page, err := c.List(ctx, &paged)
		if err != nil {
			return nil, nil, err
		}

		return page.Quotes, page.NextPageToken, nil
	})
}

// Latest implements apca.QuotesClient.Latest.
func (c *QuotesClient) Latest(ctx context.Context, req *apca.LatestQuoteRequest) (*apca.LatestQuote, error) {
	quote, err := apca.Call(ctx, c.transport, latestQuote, c.baseURL, c.creds, req)
	if err != nil {
		return nil, fmt.Errorf("getting latest quote: %w", err)
	}

	return quote, nil
}
