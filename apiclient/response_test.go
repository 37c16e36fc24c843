package apiclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResponse_String(t *testing.T) {
	resp := Response{
		"phone_number": "+123456789",
		"expires_in":   float64(3600),
		"null":         nil,
	}

	require.Equal(t, "+123456789", resp.String("phone_number"))
	require.Equal(t, "3600", resp.String("expires_in"))
	require.Empty(t, resp.String("null"))
	require.Empty(t, resp.String("missing"))
}

func TestResponse_Token(t *testing.T) {
	t.Run("full token response", func(t *testing.T) {
		resp := Response{
			"access_token":  "tok",
			"token_type":    "bearer",
			"refresh_token": "refresh",
			"expires_in":    float64(3600),
			"user_id":       "42",
		}

		token := resp.Token()
		require.NotNil(t, token)
		require.Equal(t, "tok", token.AccessToken)
		require.Equal(t, "Bearer", token.Type())
		require.Equal(t, "refresh", token.RefreshToken)
		require.Equal(t, int64(3600), token.ExpiresIn)
		require.WithinDuration(t, time.Now().Add(time.Hour), token.Expiry, time.Minute)
		require.Equal(t, "42", token.Extra("user_id"))
	})

	t.Run("string expires_in", func(t *testing.T) {
		token := Response{"access_token": "tok", "expires_in": "60"}.Token()
		require.Equal(t, int64(60), token.ExpiresIn)
	})

	t.Run("no expiry", func(t *testing.T) {
		token := Response{"access_token": "tok"}.Token()
		require.True(t, token.Expiry.IsZero())
		require.True(t, token.Valid())
	})

	t.Run("missing access token", func(t *testing.T) {
		require.Nil(t, Response{"token_type": "bearer"}.Token())
	})
}
