package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cosmic-lab-inc/apca/pkg/apca"
)

// NewTradesCommand creates the trades command group.
func NewTradesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trades",
		Short: "Query historic trades",
		Long:  "Query historic trades for a symbol within a time window",
	}

	cmd.AddCommand(newTradesListCommand())

	return cmd
}

func newTradesListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list SYMBOL",
		Short: "List historic trades",
		Long:  "List historic trades for a symbol within a time window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.build(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if flags.allPages {
				trades, err := client.Trades().ListAll(ctx, req)
				if err != nil {
					return fmt.Errorf("failed to list trades: %w", err)
				}

				return outputTrades(req.Symbol, trades, nil)
			}

			page, err := client.Trades().List(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to list trades: %w", err)
			}

			return outputTrades(page.Symbol, page.Trades, page.NextPageToken)
		},
	}

	flags.register(cmd)

	return cmd
}

func outputTrades(symbol string, trades []apca.Trade, nextPageToken *string) error {
	type tradeList struct {
		Symbol        string       `json:"symbol"                    yaml:"symbol"`
		Trades        []apca.Trade `json:"trades"                    yaml:"trades"`
		NextPageToken *string      `json:"next_page_token,omitempty" yaml:"next_page_token,omitempty"`
	}

	data := tradeList{Symbol: symbol, Trades: trades, NextPageToken: nextPageToken}

	return renderOutput(data, func() error {
		if len(trades) == 0 {
			_, _ = fmt.Fprintf(os.Stdout, "No trades found for %s\n", symbol)

			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Timestamp", "Price", "Size")

		for _, trade := range trades {
			_ = table.Append(
				formatTimestamp(trade.Timestamp),
				strconv.FormatFloat(trade.Price, 'f', -1, 64),
				strconv.FormatUint(trade.Size, 10),
			)
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		if nextPageToken != nil && *nextPageToken != "" {
			_, _ = fmt.Fprintf(os.Stdout, "\nMore results available. Continue with --page-token %s\n", *nextPageToken)
		}

		return nil
	})
}
