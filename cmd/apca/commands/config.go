package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration persisted to disk.
type Config struct {
	DataEndpoint   string `json:"data-endpoint,omitempty"   yaml:"data-endpoint,omitempty"`
	StreamEndpoint string `json:"stream-endpoint,omitempty" yaml:"stream-endpoint,omitempty"`
	KeyID          string `json:"key-id,omitempty"          yaml:"key-id,omitempty"`
	Secret         string `json:"secret,omitempty"          yaml:"secret,omitempty"`
	Output         string `json:"output,omitempty"          yaml:"output,omitempty"`
	Feed           string `json:"feed,omitempty"            yaml:"feed,omitempty"`
}

var ErrUnknownConfigKey = errors.New("unknown configuration key")

var configKeys = []string{"data-endpoint", "stream-endpoint", "key-id", "secret", "output", "feed"}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage apca CLI configuration including credentials and defaults",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			// Never print the secret itself
			display := *config
			if display.Secret != "" {
				display.Secret = "***"
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(&display)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(&display)
			default:
				return displayConfigTable(&display)
			}
		},
	}
}

func displayConfigTable(config *Config) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Value")

	orDefault := func(value string) string {
		if value == "" {
			return NotAvailable
		}

		return value
	}

	_ = table.Append("data-endpoint", orDefault(config.DataEndpoint))
	_ = table.Append("stream-endpoint", orDefault(config.StreamEndpoint))
	_ = table.Append("key-id", orDefault(config.KeyID))
	_ = table.Append("secret", orDefault(config.Secret))
	_ = table.Append("output", orDefault(config.Output))
	_ = table.Append("feed", orDefault(config.Feed))

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY [VALUE]",
		Short: "Set a configuration value",
		Long: `Set a specific configuration value.

When setting 'secret' without a VALUE argument, the secret is read from
the terminal without echo.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			var value string

			switch {
			case len(args) == 2:
				value = args[1]
			case key == "secret":
				secret, err := promptSecret()
				if err != nil {
					return err
				}

				value = secret
			default:
				return fmt.Errorf("key %q requires a value", key)
			}

			config := loadConfig()
			if err := setConfigValue(config, key, value); err != nil {
				return err
			}

			if err := saveConfigStruct(config); err != nil {
				return err
			}

			if key == "secret" {
				value = "***"
			}

			_, _ = fmt.Fprintf(os.Stdout, "Set %s to %s\n", key, value)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a specific configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			config := loadConfig()
			if err := setConfigValue(config, key, ""); err != nil {
				return err
			}

			if err := saveConfigStruct(config); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Unset %s\n", key)

			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile := viper.ConfigFileUsed()
			if configFile == "" {
				configFile = defaultConfigFile()
			}

			err := os.Remove(configFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			_, _ = os.Stdout.WriteString("Cleared all configuration\n")

			return nil
		},
	}
}

func promptSecret() (string, error) {
	_, _ = os.Stderr.WriteString("Secret: ")

	secret, err := term.ReadPassword(int(os.Stdin.Fd()))

	_, _ = os.Stderr.WriteString("\n")

	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}

	return string(secret), nil
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case "data-endpoint":
		config.DataEndpoint = value
	case "stream-endpoint":
		config.StreamEndpoint = value
	case "key-id":
		config.KeyID = value
	case "secret":
		config.Secret = value
	case "output":
		config.Output = value
	case "feed":
		config.Feed = value
	default:
		return fmt.Errorf("%w: %q (valid keys: %v)", ErrUnknownConfigKey, key, configKeys)
	}

	return nil
}

func loadConfig() *Config {
	return &Config{
		DataEndpoint:   viper.GetString("data-endpoint"),
		StreamEndpoint: viper.GetString("stream-endpoint"),
		KeyID:          viper.GetString("key-id"),
		Secret:         viper.GetString("secret"),
		Output:         viper.GetString("output"),
		Feed:           viper.GetString("feed"),
	}
}

func defaultConfigFile() string {
	home, _ := os.UserHomeDir()

	return filepath.Join(home, ".apca", "config.yml")
}
