package inmem

import (
	"context"
	"testing"

	"github.com/forgefit/forgefit"
	"github.com/stretchr/testify/assert"
)

func TestProfileStoreFirstMatch(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)

	s := NewProfileStore()
	_, err := s.FirstByUserId(ctx, 7)
	assert.Equal(forgefit.ErrProfileNotFound, err)

	s.Add(forgefit.Profile{UserId: 8, Username: forgefit.OptionalString("other")})
	first := s.Add(forgefit.Profile{UserId: 7, Username: forgefit.OptionalString("first")})
	s.Add(forgefit.Profile{UserId: 7, Username: forgefit.OptionalString("second")})

	profile, err := s.FirstByUserId(ctx, 7)
	if assert.NoError(err) {
		assert.Equal(first, profile)
	}

	upserted := s.Upsert(7, forgefit.OptionalString("renamed"))
	assert.Equal(first.Id, upserted.Id)

	profile, err = s.FirstByUserId(ctx, 7)
	if assert.NoError(err) {
		assert.Equal("renamed", *profile.Username)
	}
}
