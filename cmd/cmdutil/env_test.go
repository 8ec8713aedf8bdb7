package cmdutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nicolive-terminal/pkg/config"
)

func TestNewClientRequiresConfig(t *testing.T) {
	var e *Env
	_, err := e.NewClient()
	assert.Error(t, err)

	_, err = (&Env{}).NewClient()
	assert.Error(t, err)
}

func TestNewClientRejectsBadTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.HTTP.Timeout = "later"
	_, err := (&Env{Config: cfg}).NewClient()
	assert.Error(t, err)
}

func TestCredentialsFromEnvironment(t *testing.T) {
	t.Setenv("NICOLIVE_PASSWORD", "hunter2")
	cfg := config.Default()
	cfg.Account.Mail = "user@example.com"

	creds, err := (&Env{Config: cfg}).Credentials()
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", creds.Mail)
	assert.Equal(t, "hunter2", creds.Password)
}

func TestAuthenticateWithSession(t *testing.T) {
	e := &Env{Config: config.Default(), Session: "user_session_9"}
	client, err := e.NewClient()
	require.NoError(t, err)

	require.NoError(t, e.Authenticate(client))
	session, ok := client.Session()
	assert.True(t, ok)
	assert.Equal(t, "user_session_9", session)
}
