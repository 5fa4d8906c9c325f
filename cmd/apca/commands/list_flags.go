package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cosmic-lab-inc/apca/pkg/apca"
)

// listFlags holds the flag values shared by the trades, quotes, and bars
// list commands.
type listFlags struct {
	market    string
	start     string
	end       string
	limit     int
	feed      string
	pageToken string
	allPages  bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.market, "market", "m", "stocks", "market (stocks, crypto)")
	cmd.Flags().StringVar(&f.start, "start", "", "start of the time window (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "end of the time window (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum number of items per page")
	cmd.Flags().StringVar(&f.feed, "feed", "", "data feed (iex, sip, otc)")
	cmd.Flags().StringVar(&f.pageToken, "page-token", "", "pagination token from a previous response")
	cmd.Flags().BoolVar(&f.allPages, "all", false, "fetch all pages")
}

// build validates the flags and assembles a list request for the symbol.
func (f *listFlags) build(symbol string) (*apca.ListRequest, error) {
	if symbol == "" {
		return nil, ErrSymbolRequired
	}

	if f.start == "" {
		return nil, ErrStartRequired
	}

	prefix, err := parseMarket(f.market)
	if err != nil {
		return nil, err
	}

	start, err := parseTimeFlag(f.start)
	if err != nil {
		return nil, fmt.Errorf("parsing --start: %w", err)
	}

	// The service requires both ends of the window
	end := time.Now().UTC()
	if f.end != "" {
		end, err = parseTimeFlag(f.end)
		if err != nil {
			return nil, fmt.Errorf("parsing --end: %w", err)
		}
	}

	return &apca.ListRequest{
		Symbol:    symbol,
		Prefix:    prefix,
		Start:     start,
		End:       end,
		Limit:     f.limit,
		Feed:      apca.Feed(f.feed),
		PageToken: f.pageToken,
	}, nil
}
