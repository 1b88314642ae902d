package forgefit

import (
	"context"
	"errors"
)

var ErrProfileNotFound = errors.New("profile not found")

type Profile struct {
	Id       int64
	UserId   UserId
	Username *string
}

type ProfileStore interface {
	// First profile found for given user. Order between several profiles
	// of the same user is not defined.
	// Returns ErrProfileNotFound if user has no profile.
	FirstByUserId(ctx context.Context, userId UserId) (Profile, error)
}
