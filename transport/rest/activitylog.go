package rest

import (
	"fmt"

	"github.com/forgefit/forgefit"
	"github.com/gofiber/fiber/v2"
)

type ActivityController struct {
	Store forgefit.ActivityStore
}

func (c *ActivityController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Get("/activities", CombineHandlers(requestAuthorizer, c.serveLastActivity))
}

func (c *ActivityController) serveLastActivity(ctx *fiber.Ctx) error {
	identity := IdentityOf(ctx)
	if !identity.Authenticated {
		return fiber.ErrUnauthorized
	}
	logs, err := c.Store.ByUserId(ctx.Context(), identity.UserId)
	if err != nil {
		return fmt.Errorf("get logs by user id: %w", err)
	}

	type Log struct {
		Id        int64                  `json:"id"`
		CreatedAt int64                  `json:"createdAt"`
		Name      string                 `json:"name"`
		Data      map[string]interface{} `json:"data,omitempty"`
	}
	mapped := make([]Log, len(logs))
	for i, log := range logs {
		mapped[i] = Log{Id: log.Id, CreatedAt: log.CreatedAt.Unix(), Name: log.Name, Data: log.Data}
	}
	return ctx.JSON(mapped)
}
