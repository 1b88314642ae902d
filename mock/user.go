package mock

import (
	"context"

	"github.com/forgefit/forgefit"
	"github.com/forgefit/forgefit/discord"
)

type UserStore struct {
	RegisterDiscordUserFn func(ctx context.Context, u discord.User) (forgefit.User, error)

	ByIdFn func(ctx context.Context, userId forgefit.UserId) (forgefit.User, error)
}

func (s UserStore) RegisterDiscordUser(ctx context.Context, u discord.User) (forgefit.User, error) {
	return s.RegisterDiscordUserFn(ctx, u)
}

func (s UserStore) ById(ctx context.Context, userId forgefit.UserId) (forgefit.User, error) {
	return s.ByIdFn(ctx, userId)
}

type ProfileStore struct {
	FirstByUserIdFn func(ctx context.Context, userId forgefit.UserId) (forgefit.Profile, error)
}

func (s ProfileStore) FirstByUserId(ctx context.Context, userId forgefit.UserId) (forgefit.Profile, error) {
	return s.FirstByUserIdFn(ctx, userId)
}
