package rest

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/forgefit/forgefit"
	"github.com/gofiber/fiber/v2"
)

type DraftController struct {
	Service *forgefit.DraftService
}

func (c *DraftController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Post("/drafts", CombineHandlers(requestAuthorizer, c.serveCreate))
	app.Get("/drafts", CombineHandlers(requestAuthorizer, c.serveList))
}

func (c *DraftController) serveCreate(ctx *fiber.Ctx) error {
	var values forgefit.DraftValues
	// values are opaque, only a json object is required
	if err := json.Unmarshal(ctx.Body(), &values); err != nil || values == nil {
		RequestLog(ctx).WithError(err).Infoln("Invalid draft body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	draft, err := c.Service.Create(ctx.Context(), IdentityOf(ctx), values)
	if err != nil {
		if errors.Is(err, forgefit.ErrUnauthenticated) {
			return fiber.ErrUnauthorized
		}
		return fmt.Errorf("create draft: %w", err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(map[string]string{
		"id": draft.Id,
	})
}

func (c *DraftController) serveList(ctx *fiber.Ctx) error {
	drafts, err := c.Service.ByOwner(ctx.Context(), IdentityOf(ctx))
	if err != nil {
		if errors.Is(err, forgefit.ErrUnauthenticated) {
			return fiber.ErrUnauthorized
		}
		return fmt.Errorf("list drafts: %w", err)
	}

	type DraftResponse struct {
		Id        string               `json:"id"`
		Values    forgefit.DraftValues `json:"values"`
		CreatedAt int64                `json:"createdAt"`
	}
	mapped := make([]DraftResponse, len(drafts))
	for i, draft := range drafts {
		mapped[i] = DraftResponse{Id: draft.Id, Values: draft.Values, CreatedAt: draft.CreatedAt.Unix()}
	}
	return ctx.JSON(mapped)
}
