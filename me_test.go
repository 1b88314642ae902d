package forgefit_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/forgefit/forgefit"
	"github.com/forgefit/forgefit/inmem"
	"github.com/forgefit/forgefit/mock"
	"github.com/stretchr/testify/assert"
)

func newMeQuery() (*forgefit.MeQuery, *inmem.UserStore, *inmem.ProfileStore) {
	users := inmem.NewUserStore()
	profiles := inmem.NewProfileStore()
	return &forgefit.MeQuery{Users: &users, Profiles: &profiles}, &users, &profiles
}

func TestMeUnauthenticated(t *testing.T) {
	assert := assert.New(t)
	query := &forgefit.MeQuery{
		Users: mock.UserStore{ByIdFn: func(ctx context.Context, userId forgefit.UserId) (forgefit.User, error) {
			t.Fatal("user store must not be queried for anonymous identity")
			return forgefit.User{}, nil
		}},
	}

	me, err := query.Resolve(context.Background(), forgefit.Anonymous())
	if !assert.NoError(err) {
		return
	}
	assert.False(me.Ok())
	assert.Equal(forgefit.AbsenceUnauthenticated, me.Absence)

	body, err := json.Marshal(me)
	if assert.NoError(err) {
		assert.Equal("null", string(body))
	}
}

func TestMeUserMissing(t *testing.T) {
	assert := assert.New(t)
	query, users, _ := newMeQuery()
	deleted := users.Add(forgefit.User{Name: forgefit.OptionalString("Gone")})
	users.Delete(deleted.Id)

	me, err := query.Resolve(context.Background(), forgefit.Authenticated(deleted.Id))
	if !assert.NoError(err) {
		return
	}
	assert.False(me.Ok())
	assert.Equal(forgefit.AbsenceUserMissing, me.Absence)

	body, err := json.Marshal(me)
	if assert.NoError(err) {
		assert.Equal("null", string(body))
	}
}

func TestMeWithoutProfile(t *testing.T) {
	assert := assert.New(t)
	query, users, _ := newMeQuery()
	alice := users.Add(forgefit.User{
		Name:  forgefit.OptionalString("Alice"),
		Email: forgefit.OptionalString("a@x.com"),
	})

	me, err := query.Resolve(context.Background(), forgefit.Authenticated(alice.Id))
	if !assert.NoError(err) || !assert.True(me.Ok()) {
		return
	}
	assert.Nil(me.Me.Username)

	body, err := json.Marshal(me)
	if assert.NoError(err) {
		assert.Equal(`{"id":1,"username":null,"name":"Alice","email":"a@x.com","image":null}`, string(body))
	}
}

func TestMeWithProfile(t *testing.T) {
	assert := assert.New(t)
	query, users, profiles := newMeQuery()
	bob := users.Add(forgefit.User{
		Name:  forgefit.OptionalString("Bob"),
		Image: forgefit.OptionalString("https://cdn.example/bob.png"),
	})
	other := users.Add(forgefit.User{Name: forgefit.OptionalString("Other")})
	profiles.Add(forgefit.Profile{UserId: other.Id, Username: forgefit.OptionalString("other")})
	profiles.Add(forgefit.Profile{UserId: bob.Id, Username: forgefit.OptionalString("bobby")})

	me, err := query.Resolve(context.Background(), forgefit.Authenticated(bob.Id))
	if !assert.NoError(err) || !assert.True(me.Ok()) {
		return
	}
	assert.Equal(forgefit.Me{
		Id:       bob.Id,
		Username: forgefit.OptionalString("bobby"),
		Name:     forgefit.OptionalString("Bob"),
		Image:    forgefit.OptionalString("https://cdn.example/bob.png"),
	}, me.Me)
}

func TestMeStoreFailures(t *testing.T) {
	assert := assert.New(t)
	storeErr := errors.New("connection reset")

	cases := []struct {
		users    forgefit.UserStore
		profiles forgefit.ProfileStore
	}{
		{
			users: mock.UserStore{ByIdFn: func(ctx context.Context, userId forgefit.UserId) (forgefit.User, error) {
				return forgefit.User{}, storeErr
			}},
		},
		{
			users: mock.UserStore{ByIdFn: func(ctx context.Context, userId forgefit.UserId) (forgefit.User, error) {
				return forgefit.User{Id: userId}, nil
			}},
			profiles: mock.ProfileStore{FirstByUserIdFn: func(ctx context.Context, userId forgefit.UserId) (forgefit.Profile, error) {
				return forgefit.Profile{}, storeErr
			}},
		},
	}
	for i, tc := range cases {
		query := &forgefit.MeQuery{Users: tc.users, Profiles: tc.profiles}
		_, err := query.Resolve(context.Background(), forgefit.Authenticated(9))
		assert.True(errors.Is(err, storeErr), "index: %d", i)
	}
}

func TestAbsenceString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("none", forgefit.AbsenceNone.String())
	assert.Equal("unauthenticated", forgefit.AbsenceUnauthenticated.String())
	assert.Equal("user_missing", forgefit.AbsenceUserMissing.String())
	assert.Equal("absence(9)", forgefit.Absence(9).String())
}
