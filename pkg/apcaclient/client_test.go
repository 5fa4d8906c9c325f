package apcaclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmic-lab-inc/apca/pkg/apca"
	"github.com/cosmic-lab-inc/apca/pkg/apcaclient"
)

func TestNew_NilConfig(t *testing.T) {
	t.Parallel()

	_, err := apcaclient.New(nil)
	require.ErrorIs(t, err, apca.ErrConfigRequired)
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("APCA_API_KEY_ID", "")
	t.Setenv("APCA_API_SECRET_KEY", "")

	_, err := apcaclient.New(&apca.Config{})
	require.ErrorIs(t, err, apca.ErrCredentialsRequired)

	_, err = apcaclient.New(&apca.Config{KeyID: "key-only"})
	require.ErrorIs(t, err, apca.ErrCredentialsRequired)
}

func TestNew_ExplicitCredentials(t *testing.T) {
	t.Parallel()

	client, err := apcaclient.New(&apca.Config{KeyID: "key", Secret: "secret"})
	require.NoError(t, err)
	assert.NotNil(t, client.Trades())
}

func TestNew_EnvFallback(t *testing.T) {
	t.Setenv("APCA_API_KEY_ID", "env-key")
	t.Setenv("APCA_API_SECRET_KEY", "env-secret")

	client, err := apcaclient.New(&apca.Config{})
	require.NoError(t, err)
	assert.NotNil(t, client.Quotes())
}

func TestNew_DoesNotMutateConfig(t *testing.T) {
	t.Setenv("APCA_API_KEY_ID", "env-key")
	t.Setenv("APCA_API_SECRET_KEY", "env-secret")

	config := &apca.Config{DataEndpoint: "data.example.test/"}

	_, err := apcaclient.New(config)
	require.NoError(t, err)

	assert.Empty(t, config.KeyID)
	assert.Equal(t, "data.example.test/", config.DataEndpoint)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("APCA_API_KEY_ID", "env-key")
	t.Setenv("APCA_API_SECRET_KEY", "env-secret")

	client, err := apcaclient.FromEnv()
	require.NoError(t, err)
	assert.NotNil(t, client.Bars())
}
