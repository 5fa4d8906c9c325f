package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cosmic-lab-inc/apca/internal/constants"
	"github.com/cosmic-lab-inc/apca/pkg/apca"
)

// NewBarsCommand creates the bars command group.
func NewBarsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bars",
		Short: "Query aggregate bars",
		Long:  "Query aggregated OHLCV bars for a symbol within a time window",
	}

	cmd.AddCommand(newBarsListCommand())

	return cmd
}

func newBarsListCommand() *cobra.Command {
	flags := &listFlags{}

	var timeframe string

	cmd := &cobra.Command{
		Use:   "list SYMBOL",
		Short: "List aggregate bars",
		Long:  "List aggregated OHLCV bars for a symbol within a time window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listReq, err := flags.build(args[0])
			if err != nil {
				return err
			}

			req := &apca.BarsRequest{
				ListRequest: *listReq,
				Timeframe:   timeframe,
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if flags.allPages {
				bars, err := client.Bars().ListAll(ctx, req)
				if err != nil {
					return fmt.Errorf("failed to list bars: %w", err)
				}

				return outputBars(req.Symbol, bars, nil)
			}

			page, err := client.Bars().List(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to list bars: %w", err)
			}

			return outputBars(page.Symbol, page.Bars, page.NextPageToken)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&timeframe, "timeframe", constants.DefaultTimeframe, "bar aggregation window (e.g. 1Min, 1Hour, 1Day)")

	return cmd
}

func outputBars(symbol string, bars []apca.Bar, nextPageToken *string) error {
	type barList struct {
		Symbol        string     `json:"symbol"                    yaml:"symbol"`
		Bars          []apca.Bar `json:"bars"                      yaml:"bars"`
		NextPageToken *string    `json:"next_page_token,omitempty" yaml:"next_page_token,omitempty"`
	}

	data := barList{Symbol: symbol, Bars: bars, NextPageToken: nextPageToken}

	return renderOutput(data, func() error {
		if len(bars) == 0 {
			_, _ = fmt.Fprintf(os.Stdout, "No bars found for %s\n", symbol)

			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Timestamp", "Open", "High", "Low", "Close", "Volume")

		for _, bar := range bars {
			_ = table.Append(
				formatTimestamp(bar.Timestamp),
				strconv.FormatFloat(bar.Open, 'f', -1, 64),
				strconv.FormatFloat(bar.High, 'f', -1, 64),
				strconv.FormatFloat(bar.Low, 'f', -1, 64),
				strconv.FormatFloat(bar.Close, 'f', -1, 64),
				strconv.FormatFloat(bar.Volume, 'f', -1, 64),
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
