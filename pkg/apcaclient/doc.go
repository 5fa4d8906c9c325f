// Package apcaclient creates apca.Client values wired to the production
// transport. Use New with an explicit config, or FromEnv to pick up
// credentials from the environment.
package apcaclient
