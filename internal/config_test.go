package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("WEBHOOK_SECRET", "secret")
	t.Setenv("CHAT_API_URL", "http://localhost:9000")
	t.Setenv("INSTANCE_LOCATOR", "v1:us1:instance")
	t.Setenv("SECRET_KEY", "key:secretsecret")
	t.Setenv("FCM_SERVER_KEY", "server-key")
	t.Setenv("NUMBER_OF_WORKERS", "8")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)

	req.NoError(err)
	req.Equal(8, config.NumberOfWorkers)
	req.Equal(100, config.BufferSize)
	req.Equal("webhook-signature", config.SignatureHeader)
	req.Equal(24*time.Hour, config.AuthTokenDuration)
	req.Empty(config.BadgerFilepath)
	req.Zero(config.GRPCHealthPort)
}

func TestConfig_MissingSecret(t *testing.T) {
	t.Setenv("CHAT_API_URL", "http://localhost:9000")
	t.Setenv("INSTANCE_LOCATOR", "v1:us1:instance")
	t.Setenv("SECRET_KEY", "key:secretsecret")
	t.Setenv("FCM_SERVER_KEY", "server-key")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)

	require.Error(t, err)
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := CharacterRune("€")
	req.NoError(err)
	req.Equal('€', r)

	_, err = CharacterRune("**")
	req.Error(err)
}
