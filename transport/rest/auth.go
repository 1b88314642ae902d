package rest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forgefit/forgefit"
	"github.com/forgefit/forgefit/discord"
	"github.com/gofiber/fiber/v2"
)

const registerTimeout = time.Minute

type AuthController struct {
	CreateDiscordOAuthUrl discord.OAuthUrlFactory
	ExchangeAccessToken   discord.AccessTokenExchanger
	UserMeProvider        discord.UserMeProvider
	SessionStore          forgefit.SessionStore
	UserStore             forgefit.UserStore
	// Marks session cookie Secure.
	SecureCookie bool
}

func (c *AuthController) InstallTo(app *fiber.App) {
	app.Get("/auth/discord", c.serveCreateDiscordOAuthUrl)
	app.Post("/auth/discord", c.serveAuthenticateDiscord)
	app.Post("/auth/logout", CombineHandlers(RequestAuthorizer(c.SessionStore), c.serveLogout))
}

func (c *AuthController) serveCreateDiscordOAuthUrl(ctx *fiber.Ctx) error {
	return ctx.JSON(map[string]string{
		"url": c.CreateDiscordOAuthUrl(),
	})
}

func (c *AuthController) serveAuthenticateDiscord(ctx *fiber.Ctx) error {
	body := struct {
		Code string `json:"code"`
	}{}
	if err := ctx.BodyParser(&body); err != nil {
		RequestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Code == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid code")
	}

	exchange, err := c.ExchangeAccessToken(body.Code)
	if err != nil {
		if errors.Is(err, discord.ErrOAuthInvalidCode) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid code")
		}
		if errors.Is(err, discord.ErrRateLimited) {
			return fiber.NewError(fiber.StatusServiceUnavailable, "discord unavailable, try again later")
		}
		return fmt.Errorf("access token exchange: %w", err)
	}

	token := exchange.Token()
	if token.Empty() {
		return fmt.Errorf("access token exchange: empty access token")
	}
	dcUser, err := c.UserMeProvider()(token)
	if err != nil {
		if errors.Is(err, discord.ErrRateLimited) {
			return fiber.NewError(fiber.StatusServiceUnavailable, "discord unavailable, try again later")
		}
		return fmt.Errorf("discord user me: %w", err)
	}
	if dcUser.Id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing discord account")
	}

	// registration outlives a client that disconnects mid login
	dbCtx, cancel := context.WithTimeout(context.Background(), registerTimeout)
	user, err := c.UserStore.RegisterDiscordUser(dbCtx, dcUser)
	cancel()
	if err != nil {
		return fmt.Errorf("user register: %w", err)
	}
	session, err := c.SessionStore.RegisterNew(ctx.Context(), user.Id, ctx.IP(), string(ctx.Request().Header.UserAgent()))
	if err != nil {
		return fmt.Errorf("session register new: %w", err)
	}
	RequestLog(ctx).WithField("user_id", user.Id).Infoln("User logged in.")

	ctx.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		Secure:   c.SecureCookie,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return ctx.Status(fiber.StatusCreated).JSON(map[string]interface{}{
		"id":          session.Id,
		"userId":      session.UserId,
		"accessToken": session.Token,
		"expiresAt":   session.ExpiresAt.Unix(),
	})
}

func (c *AuthController) serveLogout(ctx *fiber.Ctx) error {
	session, err := sessionOf(ctx)
	if err != nil {
		return err
	}
	if err := c.SessionStore.InvalidateByAuthToken(session.Token); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	ctx.ClearCookie(SessionCookieName)
	return nil
}
