package rest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/forgefit/forgefit"
	"github.com/gofiber/fiber/v2"
)

const (
	SessionCookieName = "session"

	sessionLocalsKey  = "session"
	identityLocalsKey = "identity"
)

var errInvalidAuthType = fiber.NewError(fiber.StatusBadRequest, "invalid auth type")

// Token from Authorization header, or session cookie when header is absent.
// Empty token means the request carries no credentials.
func requestToken(ctx *fiber.Ctx) (string, error) {
	auth := ctx.Get(fiber.HeaderAuthorization)
	if auth == "" {
		return ctx.Cookies(SessionCookieName), nil
	}
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", errInvalidAuthType
	}
	return strings.TrimPrefix(auth, "Bearer "), nil
}

// IdentityResolver stores caller identity in locals. Requests without a
// valid session continue as anonymous.
func IdentityResolver(sessionStore forgefit.SessionStore) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		_, err := resolveSession(ctx, sessionStore)
		if errors.Is(err, forgefit.ErrSessionNotFound) {
			ctx.Locals(identityLocalsKey, forgefit.Anonymous())
			return nil
		}
		return err
	}
}

// RequestAuthorizer rejects requests without a valid session.
func RequestAuthorizer(sessionStore forgefit.SessionStore) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		_, err := resolveSession(ctx, sessionStore)
		if errors.Is(err, forgefit.ErrSessionNotFound) {
			return fiber.ErrUnauthorized
		}
		return err
	}
}

func resolveSession(ctx *fiber.Ctx, sessionStore forgefit.SessionStore) (forgefit.Session, error) {
	token, err := requestToken(ctx)
	if err != nil {
		return forgefit.Session{}, err
	}
	if token == "" {
		return forgefit.Session{}, forgefit.ErrSessionNotFound
	}

	session, err := sessionStore.AcquireAndRefresh(ctx.Context(), token, ctx.IP(),
		string(ctx.Request().Header.UserAgent()))
	if err != nil {
		if errors.Is(err, forgefit.ErrSessionNotFound) {
			return forgefit.Session{}, err
		}
		return forgefit.Session{}, fmt.Errorf("acquire and refresh session: %w", err)
	}

	RequestLog(ctx).
		WithField("user_id", session.UserId).
		Infoln("Authorized access.")

	ctx.Locals(sessionLocalsKey, session)
	ctx.Locals(identityLocalsKey, forgefit.Authenticated(session.UserId))
	return session, nil
}

// Identity resolved for this request, anonymous when none was.
func IdentityOf(ctx *fiber.Ctx) forgefit.Identity {
	identity, ok := ctx.Locals(identityLocalsKey).(forgefit.Identity)
	if !ok {
		return forgefit.Anonymous()
	}
	return identity
}

func sessionOf(ctx *fiber.Ctx) (forgefit.Session, error) {
	session, ok := ctx.Locals(sessionLocalsKey).(forgefit.Session)
	if !ok {
		return forgefit.Session{}, fiber.ErrUnauthorized
	}
	return session, nil
}
