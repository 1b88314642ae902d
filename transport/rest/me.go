package rest

import (
	"fmt"

	"github.com/forgefit/forgefit"
	"github.com/gofiber/fiber/v2"
)

type MeController struct {
	Query *forgefit.MeQuery
}

func (c *MeController) InstallTo(identityResolver fiber.Handler, app *fiber.App) {
	app.Get("/me", CombineHandlers(identityResolver, c.serveMe))
}

func (c *MeController) serveMe(ctx *fiber.Ctx) error {
	current, err := c.Query.Resolve(ctx.Context(), IdentityOf(ctx))
	if err != nil {
		return fmt.Errorf("resolve current user: %w", err)
	}
	if !current.Ok() {
		RequestLog(ctx).WithField("absence", current.Absence).Debugln("No current user.")
	}
	return ctx.JSON(current)
}
