package rest

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/forgefit/forgefit/discord"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestSessionController(t *testing.T) {
	assert := assert.New(t)
	stores := newTestStores(t)

	_, current := stores.login(t, discord.User{Id: "1", Username: "one"})
	_, second := stores.login(t, discord.User{Id: "1", Username: "one"})
	_, third := stores.login(t, discord.User{Id: "1", Username: "one"})
	_, foreign := stores.login(t, discord.User{Id: "2", Username: "two"})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	controller := SessionController{Store: stores.sessions}
	controller.InstallTo(RequestAuthorizer(stores.sessions), app)

	do := func(method string, path string) (int, string) {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+current.Token)
		resp, err := app.Test(req)
		if !assert.NoError(err, path) {
			return 0, ""
		}
		return resp.StatusCode, readBody(assert, resp)
	}
	listIds := func() []string {
		status, body := do("GET", "/sessions")
		assert.Equal(fiber.StatusOK, status)
		var metas []SessionMeta
		assert.NoError(json.Unmarshal([]byte(body), &metas))
		ids := make([]string, len(metas))
		for i, meta := range metas {
			ids[i] = meta.Id
		}
		return ids
	}

	status, body := do("GET", "/session")
	assert.Equal(fiber.StatusOK, status)
	assert.Contains(body, `"id":"`+current.Id+`"`)
	assert.NotContains(body, current.Token)

	assert.ElementsMatch([]string{current.Id, second.Id, third.Id}, listIds())

	status, _ = do("DELETE", "/session/"+url.PathEscape(foreign.Id))
	assert.Equal(fiber.StatusForbidden, status)
	exists, err := stores.sessions.Exists(foreign.Token)
	assert.NoError(err)
	assert.True(exists)

	status, _ = do("DELETE", "/session/"+url.PathEscape(second.Id))
	assert.Equal(fiber.StatusNoContent, status)
	assert.ElementsMatch([]string{current.Id, third.Id}, listIds())

	status, _ = do("DELETE", "/sessions/other")
	assert.Equal(fiber.StatusNoContent, status)
	assert.Equal([]string{current.Id}, listIds())

	exists, err = stores.sessions.Exists(foreign.Token)
	assert.NoError(err)
	assert.True(exists)

	status, _ = do("DELETE", "/session/"+url.PathEscape(current.Id))
	assert.Equal(fiber.StatusNoContent, status)
	status, _ = do("GET", "/session")
	assert.Equal(fiber.StatusUnauthorized, status)
}
