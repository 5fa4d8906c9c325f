package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configWriteMu sync.Mutex

// saveConfigStruct writes the configuration to the active config file,
// creating ~/.apca/config.yml when none is in use yet.
func saveConfigStruct(config *Config) error {
	configWriteMu.Lock()
	defer configWriteMu.Unlock()

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = defaultConfigFile()
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// 0600: the file holds API credentials
	if err := os.WriteFile(configFile, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
