package rest

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	ErrorMessage string `json:"error_message"`
}

func RequestLog(ctx *fiber.Ctx) *logrus.Entry {
	return logrus.
		WithField("remote_addr", ctx.Context().RemoteAddr()).
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path()).
		WithField("z_referer", string(ctx.Request().Header.Peek(fiber.HeaderReferer))).
		WithField("z_user_agent", string(ctx.Request().Header.Peek(fiber.HeaderUserAgent))).
		WithField("z_x_forwarded_for", string(ctx.Request().Header.Peek(fiber.HeaderXForwardedFor)))
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return ctx.
			Status(fe.Code).
			JSON(&ErrorResponse{ErrorMessage: fe.Message})
	}
	RequestLog(ctx).WithError(err).Errorln("Internal server error.")
	// keep internal errors private
	return ctx.
		Status(fiber.StatusInternalServerError).
		JSON(&ErrorResponse{ErrorMessage: fiber.ErrInternalServerError.Message})
}

func NotFoundHandler(*fiber.Ctx) error {
	return fiber.ErrNotFound
}

func LogHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		RequestLog(ctx).Infoln("Handling request.")
		return ctx.Next()
	}
}

// Runs handlers in order, stops at the first error.
func CombineHandlers(handlers ...fiber.Handler) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		for _, handler := range handlers {
			if err := handler(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

func JsonErrorMessageResponse(message string) string {
	bytes, err := json.Marshal(ErrorResponse{ErrorMessage: message})
	if err != nil {
		panic(err)
	}
	return string(bytes)
}
