package discord

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateDiscordOauthUrl(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		clientId    string
		redirectUri string
		result      string
	}{
		{"2115", "https://forgefit.app/login", "https://discord.com/api/oauth2/authorize?client_id=2115&" +
			"redirect_uri=https%3A%2F%2Fforgefit.app%2Flogin&response_type=code&scope=email+identify"},
		{"3721", "http://localhost:2137/discord", "https://discord.com/api/oauth2/authorize?client_id=3721&" +
			"redirect_uri=http%3A%2F%2Flocalhost%3A2137%2Fdiscord&response_type=code&scope=email+identify"},
	}

	for i, tc := range cases {
		f := RestOAuthUrlFactory(tc.clientId, tc.redirectUri)
		assert.Equal(tc.result, f(), "index: %d", i)
	}
}

func TestAccessTokenExchangeError(t *testing.T) {
	assert := assert.New(t)

	_, err := accessTokenExchangeError(400, []byte(`{"error":"invalid_grant","error_description":"Invalid \"code\" in request."}`))
	assert.True(errors.Is(err, ErrOAuthInvalidCode))

	_, err = accessTokenExchangeError(500, []byte(`{"error":"server_error"}`))
	if assert.Error(err) {
		assert.False(errors.Is(err, ErrOAuthInvalidCode))
	}

	_, err = accessTokenExchangeError(502, []byte(`<html>bad gateway</html>`))
	assert.Error(err)

	_, err = accessTokenExchangeError(429, []byte(`{"message":"You are being rate limited.","retry_after":1.5}`))
	assert.ErrorIs(err, ErrRateLimited)
	_, err = accessTokenExchangeError(429, []byte(`slow down`))
	assert.ErrorIs(err, ErrRateLimited)
}
