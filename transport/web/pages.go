package web

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/forgefit/forgefit"
	"github.com/forgefit/forgefit/screen"
	"github.com/forgefit/forgefit/transport/rest"
	"github.com/forgefit/forgefit/view"
	"github.com/gofiber/fiber/v2"
)

const timeLayout = "2006-01-02 15:04"

type PageController struct {
	Drafts   *forgefit.DraftService
	Renderer *view.Renderer
}

func (c *PageController) InstallTo(identityResolver fiber.Handler, app *fiber.App) {
	app.Get(screen.RouteMyExercises, rest.CombineHandlers(identityResolver, c.serveExercises))
	app.Get(screen.RouteNewExercise, rest.CombineHandlers(identityResolver, c.serveNewExercise))
	app.Post(screen.RouteNewExercise, rest.CombineHandlers(identityResolver, c.serveCreateExercise))
}

func (c *PageController) serveExercises(ctx *fiber.Ctx) error {
	drafts, err := c.Drafts.ByOwner(ctx.Context(), rest.IdentityOf(ctx))
	if err != nil {
		if errors.Is(err, forgefit.ErrUnauthenticated) {
			return fiber.ErrUnauthorized
		}
		return fmt.Errorf("list drafts: %w", err)
	}

	rows := make([]view.DraftRow, len(drafts))
	for i, draft := range drafts {
		rows[i] = view.DraftRow{
			Id:        draft.Id,
			Name:      draftName(draft),
			CreatedAt: draft.CreatedAt.Format(timeLayout),
		}
	}
	page, err := c.Renderer.Exercises(view.ExercisesPage{
		Header: view.Header{
			Title:     "My exercises",
			Subtitle:  countLabel(len(drafts)),
			RightSlot: link(screen.RouteNewExercise, "New exercise"),
		},
		Drafts: rows,
	})
	if err != nil {
		return err
	}
	return sendHtml(ctx, fiber.StatusOK, page)
}

func (c *PageController) serveNewExercise(ctx *fiber.Ctx) error {
	if !rest.IdentityOf(ctx).Authenticated {
		return fiber.ErrUnauthorized
	}
	return c.sendForm(ctx, fiber.StatusOK, NewNavigator(ctx), "", nil)
}

func (c *PageController) serveCreateExercise(ctx *fiber.Ctx) error {
	identity := rest.IdentityOf(ctx)
	nav := NewNavigator(ctx)
	values := formValues(ctx)

	s := screen.CreateDraftScreen{
		Create: func(ctx context.Context, values forgefit.DraftValues) (forgefit.Draft, error) {
			return c.Drafts.Create(ctx, identity, values)
		},
		Nav: nav,
	}
	err := s.Form().OnSubmit(ctx.Context(), values)
	if err == nil {
		return nil
	}
	if errors.Is(err, forgefit.ErrUnauthenticated) {
		return fiber.ErrUnauthorized
	}

	rest.RequestLog(ctx).WithError(err).Errorln("Could not create draft.")
	return c.sendForm(ctx, fiber.StatusInternalServerError, nav, "Could not create the exercise, try again.", values)
}

func (c *PageController) sendForm(ctx *fiber.Ctx, status int, nav *Navigator, message string, values forgefit.DraftValues) error {
	cancel := screen.RouteMyExercises
	if nav.CanGoBack() {
		cancel = nav.BackPath()
	}
	stringValues := make(map[string]string, len(values))
	for key, value := range values {
		stringValues[key] = fmt.Sprint(value)
	}

	page, err := c.Renderer.DraftForm(view.DraftFormPage{
		Header: view.Header{
			Title:     "New exercise",
			Subtitle:  "Saved as a draft",
			RightSlot: link(cancel, "Cancel"),
		},
		SubmitLabel: screen.CreateLabel,
		ReturnTo:    nav.BackPath(),
		Error:       message,
		Values:      stringValues,
	})
	if err != nil {
		return err
	}
	return sendHtml(ctx, status, page)
}

// Filled form fields, empty ones are left out.
func formValues(ctx *fiber.Ctx) forgefit.DraftValues {
	values := forgefit.DraftValues{}
	ctx.Request().PostArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		if k == returnToField || len(value) == 0 {
			return
		}
		values[k] = string(value)
	})
	return values
}

func draftName(draft forgefit.Draft) string {
	if name, ok := draft.Values["name"].(string); ok && name != "" {
		return name
	}
	return "Untitled"
}

func countLabel(n int) string {
	if n == 1 {
		return "1 exercise"
	}
	return fmt.Sprintf("%d exercises", n)
}

func link(href string, label string) string {
	return fmt.Sprintf(`<a class="button" href="%s">%s</a>`, html.EscapeString(href), html.EscapeString(label))
}

func sendHtml(ctx *fiber.Ctx, status int, page []byte) error {
	ctx.Type("html", "utf-8")
	return ctx.Status(status).Send(page)
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return ctx.Status(fe.Code).SendString(fe.Message)
	}
	rest.RequestLog(ctx).WithError(err).Errorln("Internal server error.")
	return ctx.Status(fiber.StatusInternalServerError).SendString(fiber.ErrInternalServerError.Message)
}
