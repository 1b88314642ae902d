package forgefit

import (
	"context"
	"errors"
	"time"

	"github.com/forgefit/forgefit/discord"
)

var ErrUserNotFound = errors.New("user not found")

type UserId int64

type User struct {
	Id        UserId
	CreatedAt time.Time
	DiscordId string
	// Optional identity fields, nil when the auth provider did not share them.
	Name  *string
	Email *string
	Image *string
}

type UserStore interface {
	// Create or update user with its profile from discord account.
	RegisterDiscordUser(ctx context.Context, u discord.User) (User, error)

	// Returns ErrUserNotFound if there is no user with given id.
	ById(ctx context.Context, userId UserId) (User, error)
}

// Returns pointer to s or nil if s is empty.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
