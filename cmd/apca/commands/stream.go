package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cosmic-lab-inc/apca/internal/constants"
	"github.com/cosmic-lab-inc/apca/internal/stream"
	"github.com/cosmic-lab-inc/apca/pkg/apca"
)

// NewStreamCommand creates the stream command.
func NewStreamCommand() *cobra.Command {
	var (
		feed        string
		trades      []string
		quotes      []string
		bars        []string
		natsURL     string
		natsSubject string
	)

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Stream live market data",
		Long: `Stream live trades, quotes, and bars over the push feed.

Each message is printed to stdout as a JSON line. With --nats-url, messages
are additionally republished to NATS under SUBJECT.TYPE.SYMBOL. Interrupt
with Ctrl-C.`,
		Example: `  apca stream --trades AAPL,MSFT --quotes AAPL
  apca stream --bars SPY --feed sip
  apca stream --trades BTC/USD --nats-url nats://localhost:4222`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(trades) == 0 && len(quotes) == 0 && len(bars) == 0 {
				return ErrNoStreamSubscriptions
			}

			keyID := viper.GetString("key-id")
			if keyID == "" {
				keyID = os.Getenv(constants.EnvKeyID)
			}

			secret := viper.GetString("secret")
			if secret == "" {
				secret = os.Getenv(constants.EnvSecret)
			}

			if keyID == "" || secret == "" {
				return apca.ErrCredentialsRequired
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := stream.Config{
				Endpoint: viper.GetString("stream-endpoint"),
				Feed:     apca.Feed(feed),
				KeyID:    keyID,
				Secret:   secret,
			}
			if viper.GetBool("verbose") {
				cfg.Logger = NewZapLogger()
			}

			client, err := stream.Connect(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connecting to stream: %w", err)
			}
			defer func() { _ = client.Close() }()

			if err := client.Subscribe(trades, quotes, bars); err != nil {
				return fmt.Errorf("subscribing: %w", err)
			}

			var natsConn *nats.Conn
			if natsURL != "" {
				natsConn, err = nats.Connect(natsURL, nats.Name("apca-stream"))
				if err != nil {
					return fmt.Errorf("connecting to NATS: %w", err)
				}
				defer natsConn.Close()
			}

			encoder := json.NewEncoder(os.Stdout)

			for {
				select {
				case <-ctx.Done():
					return nil
				case msg, ok := <-client.Messages():
					if !ok {
						if err := client.Err(); err != nil {
							return fmt.Errorf("stream closed: %w", err)
						}

						return nil
					}

					if err := encoder.Encode(msg); err != nil {
						return fmt.Errorf("encoding message: %w", err)
					}

					if natsConn != nil {
						if err := republish(natsConn, natsSubject, msg); err != nil {
							return err
						}
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&feed, "feed", string(apca.FeedIEX), "data feed (iex, sip, otc)")
	cmd.Flags().StringSliceVar(&trades, "trades", nil, "symbols to stream trades for")
	cmd.Flags().StringSliceVar(&quotes, "quotes", nil, "symbols to stream quotes for")
	cmd.Flags().StringSliceVar(&bars, "bars", nil, "symbols to stream bars for")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "republish messages to this NATS server")
	cmd.Flags().StringVar(&natsSubject, "nats-subject", "apca", "NATS subject prefix for republished messages")

	return cmd
}

// republish forwards a stream message to NATS under SUBJECT.TYPE.SYMBOL.
func republish(conn *nats.Conn, subjectPrefix string, msg stream.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message for NATS: %w", err)
	}

	subject := subjectPrefix + "." + msg.Type
	if msg.Symbol != "" {
		subject += "." + msg.Symbol
	}

	if err := conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publishing to NATS: %w", err)
	}

	return nil
}
