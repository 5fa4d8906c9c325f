// Package apcaclient provides the entry point for creating market-data
// clients.
package apcaclient

import (
	"fmt"
	"os"
	"strings"

	"github.com/cosmic-lab-inc/apca/internal/client"
	"github.com/cosmic-lab-inc/apca/internal/constants"
	"github.com/cosmic-lab-inc/apca/pkg/apca"
)

// New creates a market-data client from the config. Missing credentials fall
// back to the APCA_API_KEY_ID and APCA_API_SECRET_KEY environment variables;
// a missing data endpoint falls back to the production one.
func New(config *apca.Config) (apca.Client, error) {
	if config == nil {
		return nil, apca.ErrConfigRequired
	}

	// Work on a copy so the caller's config is never mutated.
	cfg := *config

	if cfg.KeyID == "" {
		cfg.KeyID = os.Getenv(constants.EnvKeyID)
	}

	if cfg.Secret == "" {
		cfg.Secret = os.Getenv(constants.EnvSecret)
	}

	if cfg.KeyID == "" || cfg.Secret == "" {
		return nil, apca.ErrCredentialsRequired
	}

	cfg.DataEndpoint = normalizeEndpoint(cfg.DataEndpoint)

	apiClient, err := client.New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return apiClient, nil
}

// FromEnv creates a client configured entirely from the environment.
func FromEnv() (apca.Client, error) {
	return New(&apca.Config{})
}

// normalizeEndpoint trims a trailing slash and defaults the scheme to https.
func normalizeEndpoint(endpoint string) string {
	if endpoint == "" {
		return constants.DefaultDataEndpoint
	}

	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}
