package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("s3cret")
	token, err := CreateAccessToken(secret, "ops", time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccessToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, "tasks", claims.Scope)
}

func TestAccessTokenRejected(t *testing.T) {
	secret := []byte("s3cret")

	token, err := CreateAccessToken(secret, "ops", time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken([]byte("other"), token)
	assert.Error(t, err)

	expired, err := CreateAccessToken(secret, "ops", -time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, expired)
	assert.Error(t, err)

	noSubject, err := CreateAccessToken(secret, "", time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, noSubject)
	assert.Error(t, err)

	_, err = CreateAccessToken(nil, "ops", time.Minute)
	assert.Error(t, err)
}
