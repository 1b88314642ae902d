package discord

import (
	"errors"
	"strings"
)

var (
	ErrUnauthorized = errors.New("discord: unauthorized")
	// Discord asked us to slow down, login can be retried later.
	ErrRateLimited = errors.New("discord: rate limited")
)

const defaultTokenType = "Bearer"

// Access token of a discord account, sent only to discord itself.
type Token struct {
	Type  string
	Value string
}

func (t Token) Empty() bool {
	return strings.TrimSpace(t.Value) == ""
}

// Authorization header value. Type defaults to Bearer when the exchange left it out.
func (t Token) String() string {
	tokenType := t.Type
	if tokenType == "" {
		tokenType = defaultTokenType
	}
	return tokenType + " " + t.Value
}
