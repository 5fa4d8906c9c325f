package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/cosmic-lab-inc/apca/pkg/apca"
	"github.com/cosmic-lab-inc/apca/pkg/apcaclient"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"

	// Output formats.
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"
)

// Common static errors used throughout the commands package.
var (
	ErrSymbolRequired        = errors.New("symbol is required")
	ErrStartRequired         = errors.New("start time is required (--start)")
	ErrAtLeastOneSymbol      = errors.New("at least one symbol is required")
	ErrNoStreamSubscriptions = errors.New("nothing to stream: pass --trades, --quotes, or --bars")
	ErrInvalidTimeFormat     = errors.New("invalid time format, expected RFC 3339 (e.g. 2024-01-02T15:04:05Z) or YYYY-MM-DD")
)

// CreateClient builds a market-data client from viper configuration.
func CreateClient() (apca.Client, error) {
	config := &apca.Config{
		DataEndpoint: viper.GetString("data-endpoint"),
		KeyID:        viper.GetString("key-id"),
		Secret:       viper.GetString("secret"),
	}

	if viper.GetBool("verbose") {
		config.Debug = true
		config.Logger = NewZapLogger()
	}

	client, err := apcaclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return client, nil
}

// zapLogger adapts a zap.SugaredLogger to the apca.Logger interface.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger returns an apca.Logger backed by a zap console logger
// writing to stderr, suitable for CLI verbose output.
func NewZapLogger() apca.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)

	return &zapLogger{sugar: zap.New(core).Sugar()}
}

func flattenFields(fields map[string]interface{}) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for key, value := range fields {
		kv = append(kv, key, value)
	}

	return kv
}

func (l *zapLogger) Debug(msg string, fields map[string]interface{}) {
	l.sugar.Debugw(msg, flattenFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields map[string]interface{}) {
	l.sugar.Infow(msg, flattenFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields map[string]interface{}) {
	l.sugar.Warnw(msg, flattenFields(fields)...)
}

func (l *zapLogger) Error(msg string, fields map[string]interface{}) {
	l.sugar.Errorw(msg, flattenFields(fields)...)
}

// parseTimeFlag accepts RFC 3339 timestamps or plain dates.
func parseTimeFlag(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}

	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
}

// parseMarket maps the --market flag to a path prefix.
func parseMarket(value string) (apca.MarketPrefix, error) {
	prefix, err := apca.ParseMarketPrefix(value)
	if err != nil {
		return 0, fmt.Errorf("parsing --market: %w", err)
	}

	return prefix, nil
}

// encodeJSON writes data to stdout as indented JSON.
func encodeJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding to JSON: %w", err)
	}

	return nil
}

// encodeYAML writes data to stdout as YAML.
func encodeYAML(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding to YAML: %w", err)
	}

	return nil
}

// renderOutput dispatches on the configured output format, falling back
// to the provided table renderer.
func renderOutput(data interface{}, renderTable func() error) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return encodeJSON(data)
	case OutputFormatYAML:
		return encodeYAML(data)
	default:
		return renderTable()
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}

	return t.UTC().Format(time.RFC3339Nano)
}
