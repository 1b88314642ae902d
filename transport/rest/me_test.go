package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/forgefit/forgefit"
	"github.com/forgefit/forgefit/discord"
	"github.com/forgefit/forgefit/mock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestMeController(t *testing.T) {
	assert := assert.New(t)
	stores := newTestStores(t)

	user, session := stores.login(t, discord.User{
		Id:         "928592940128",
		Username:   "ww_makin_c",
		GlobalName: "Makin",
		Email:      "makin@forgefit.app",
	})
	deleted, deletedSession := stores.login(t, discord.User{Id: "2222", Username: "gone"})
	stores.users.Delete(deleted.Id)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	controller := MeController{Query: &forgefit.MeQuery{Users: stores.users, Profiles: stores.profiles}}
	controller.InstallTo(IdentityResolver(stores.sessions), app)

	cases := []struct {
		auth     string
		status   int
		expected string
	}{
		{status: fiber.StatusOK, expected: "null"},
		{auth: "Bearer not-a-session", status: fiber.StatusOK, expected: "null"},
		{auth: "Bearer " + deletedSession.Token, status: fiber.StatusOK, expected: "null"},
		{auth: "Bearer " + session.Token, status: fiber.StatusOK, expected: fmt.Sprintf(
			`{"id":%d,"username":"ww_makin_c","name":"Makin","email":"makin@forgefit.app","image":null}`, user.Id)},
		{auth: "Basic " + session.Token, status: fiber.StatusBadRequest,
			expected: JsonErrorMessageResponse("invalid auth type")},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/me", nil)
		if tc.auth != "" {
			req.Header.Set(fiber.HeaderAuthorization, tc.auth)
		}
		resp, err := app.Test(req)
		if !assert.NoError(err, tc.auth) {
			continue
		}
		assert.Equal(tc.status, resp.StatusCode, tc.auth)
		assert.Equal(tc.expected, readBody(assert, resp), tc.auth)
	}
}

func TestMeControllerStoreFailure(t *testing.T) {
	assert := assert.New(t)
	stores := newTestStores(t)
	_, session := stores.login(t, discord.User{Id: "1", Username: "one"})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	controller := MeController{Query: &forgefit.MeQuery{
		Users: stores.users,
		Profiles: mock.ProfileStore{
			FirstByUserIdFn: func(ctx context.Context, userId forgefit.UserId) (forgefit.Profile, error) {
				return forgefit.Profile{}, errors.New("connection refused")
			},
		},
	}}
	controller.InstallTo(IdentityResolver(stores.sessions), app)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+session.Token)
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(JsonErrorMessageResponse("Internal Server Error"), readBody(assert, resp))
}
