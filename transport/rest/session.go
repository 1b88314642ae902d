package rest

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/forgefit/forgefit"
	"github.com/gofiber/fiber/v2"
)

type SessionController struct {
	Store forgefit.SessionStore
}

func (c *SessionController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Get("/session", CombineHandlers(requestAuthorizer, c.serveCurrentSession))
	app.Delete("/session/:session_id", CombineHandlers(requestAuthorizer, c.serveDeleteSession))
	app.Get("/sessions", CombineHandlers(requestAuthorizer, c.serveSessions))
	app.Delete("/sessions/other", CombineHandlers(requestAuthorizer, c.serveDeleteOtherSessions))
}

// Session information without the authorization token.
type SessionMeta struct {
	Id             string `json:"id"`
	Ip             string `json:"ip"`
	UserAgent      string `json:"userAgent"`
	LastAccessedAt int64  `json:"lastAccessedAt"`
	ExpiresAt      int64  `json:"expiresAt"`
}

func sessionMeta(session forgefit.Session) SessionMeta {
	return SessionMeta{
		Id:             session.Id,
		Ip:             session.Ip,
		UserAgent:      session.UserAgent,
		LastAccessedAt: session.LastAccessedAt.Unix(),
		ExpiresAt:      session.ExpiresAt.Unix(),
	}
}

func (c *SessionController) serveCurrentSession(ctx *fiber.Ctx) error {
	session, err := sessionOf(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(sessionMeta(session))
}

func (c *SessionController) serveSessions(ctx *fiber.Ctx) error {
	session, err := sessionOf(ctx)
	if err != nil {
		return err
	}

	activeSessions, err := c.Store.ActiveSessions(session.Token)
	if err != nil {
		if errors.Is(err, forgefit.ErrSessionNotFound) {
			return fiber.ErrForbidden
		}
		return fmt.Errorf("active sessions: %w", err)
	}

	metas := make([]SessionMeta, len(activeSessions))
	for i, active := range activeSessions {
		metas[i] = sessionMeta(active)
	}
	return ctx.JSON(metas)
}

func (c *SessionController) serveDeleteSession(ctx *fiber.Ctx) error {
	encodedSessionId := ctx.Params("session_id")
	if encodedSessionId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no session id")
	}
	session, err := sessionOf(ctx)
	if err != nil {
		return err
	}

	sessionId, err := url.PathUnescape(encodedSessionId)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	if session.Id == sessionId {
		err = c.Store.InvalidateByAuthToken(session.Token)
	} else {
		err = c.Store.InvalidateById(session.UserId, sessionId)
	}
	if err != nil {
		if errors.Is(err, forgefit.ErrSessionNotFound) {
			return fiber.ErrForbidden
		}
		return fmt.Errorf("session invalidate: %w", err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *SessionController) serveDeleteOtherSessions(ctx *fiber.Ctx) error {
	session, err := sessionOf(ctx)
	if err != nil {
		return err
	}
	if err := c.Store.InvalidateAllExcept(session.Token); err != nil {
		return fmt.Errorf("invalidate other sessions: %w", err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
