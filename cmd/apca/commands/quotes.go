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

// NewQuotesCommand creates the quotes command group.
func NewQuotesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Query quotes",
		Long:  "Query historic quotes for a symbol, or the latest quote",
	}

	cmd.AddCommand(newQuotesListCommand())
	cmd.AddCommand(newQuotesLatestCommand())

	return cmd
}

func newQuotesListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list SYMBOL",
		Short: "List historic quotes",
		Long:  "List historic quotes for a symbol within a time window",
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
				quotes, err := client.Quotes().ListAll(ctx, req)
				if err != nil {
					return fmt.Errorf("failed to list quotes: %w", err)
				}

				return outputQuotes(req.Symbol, quotes, nil)
			}

			page, err := client.Quotes().List(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to list quotes: %w", err)
			}

			return outputQuotes(page.Symbol, page.Quotes, page.NextPageToken)
		},
	}

	flags.register(cmd)

	return cmd
}

func newQuotesLatestCommand() *cobra.Command {
	var (
		market string
		feed   string
	)

	cmd := &cobra.Command{
		Use:   "latest SYMBOL",
		Short: "Show the latest quote",
		Long:  "Show the most recent quote for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix, err := parseMarket(market)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			latest, err := client.Quotes().Latest(context.Background(), &apca.LatestQuoteRequest{
				Symbol: args[0],
				Prefix: prefix,
				Feed:   apca.Feed(feed),
			})
			if err != nil {
				return fmt.Errorf("failed to fetch latest quote: %w", err)
			}

			return renderOutput(latest, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Symbol", "Timestamp", "Bid Price", "Bid Size", "Ask Price", "Ask Size")
				_ = table.Append(
					latest.Symbol,
					formatTimestamp(latest.Quote.Timestamp),
					strconv.FormatFloat(latest.Quote.BidPrice, 'f', -1, 64),
					strconv.FormatUint(latest.Quote.BidSize, 10),
					strconv.FormatFloat(latest.Quote.AskPrice, 'f', -1, 64),
					strconv.FormatUint(latest.Quote.AskSize, 10),
				)

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&market, "market", "m", "stocks", "market (stocks, crypto)")
	cmd.Flags().StringVar(&feed, "feed", "", "data feed (iex, sip, otc)")

	return cmd
}

func outputQuotes(symbol string, quotes []apca.Quote, nextPageToken *string) error {
	type quoteList struct {
		Symbol        string       `json:"symbol"                    yaml:"symbol"`
		Quotes        []apca.Quote `json:"quotes"                    yaml:"quotes"`
		NextPageToken *string      `json:"next_page_token,omitempty" yaml:"next_page_token,omitempty"`
	}

	data := quoteList{Symbol: symbol, Quotes: quotes, NextPageToken: nextPageToken}

	return renderOutput(data, func() error {
		if len(quotes) == 0 {
			_, _ = fmt.Fprintf(os.Stdout, "No quotes found for %s\n", symbol)

			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Timestamp", "Bid Price", "Bid Size", "Ask Price", "Ask Size")

		for _, quote := range quotes {
			_ = table.Append(
				formatTimestamp(quote.Timestamp),
				strconv.FormatFloat(quote.BidPrice, 'f', -1, 64),
				strconv.FormatUint(quote.BidSize, 10),
				strconv.FormatFloat(quote.AskPrice, 'f', -1, 64),
				strconv.FormatUint(quote.AskSize, 10),
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
