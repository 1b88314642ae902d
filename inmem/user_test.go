package inmem

import (
	"context"
	"testing"

	"github.com/forgefit/forgefit"
	"github.com/forgefit/forgefit/discord"
	"github.com/stretchr/testify/assert"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)

	profiles := NewProfileStore()
	s := NewUserStore()
	s.Profiles = &profiles

	_, err := s.ById(ctx, 1)
	assert.Equal(forgefit.ErrUserNotFound, err)

	dcUser := discord.User{
		Id:         "20d93290snowflake",
		Username:   "indecorum",
		GlobalName: "Indecorum",
		Email:      "aleja@rejwu.pl",
	}
	u, err := s.RegisterDiscordUser(ctx, dcUser)
	if !assert.NoError(err) {
		return
	}
	assert.Equal("Indecorum", *u.Name)
	assert.Equal("aleja@rejwu.pl", *u.Email)
	assert.Nil(u.Image)

	ufound, err := s.ById(ctx, u.Id)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(u, ufound)

	profile, err := profiles.FirstByUserId(ctx, u.Id)
	if assert.NoError(err) {
		assert.Equal("indecorum", *profile.Username)
	}

	// second login updates the same user
	dcUser.Email = "nowy@rejwu.pl"
	again, err := s.RegisterDiscordUser(ctx, dcUser)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(u.Id, again.Id)
	assert.Equal("nowy@rejwu.pl", *again.Email)

	s.Delete(u.Id)
	_, err = s.ById(ctx, u.Id)
	assert.Equal(forgefit.ErrUserNotFound, err)
}
