package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fusion-kit/auth-service/internal/auth"
	"github.com/fusion-kit/auth-service/internal/observability"
	apperrors "github.com/fusion-kit/auth-service/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := translateError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

// translateError maps token and principal failure kinds onto response
// codes; everything else falls through to the generic conversion.
func translateError(err error) *apperrors.DomainError {
	switch {
	case errors.Is(err, auth.ErrMalformedToken):
		return apperrors.NewDomainError("MALFORMED_TOKEN", "malformed token", http.StatusUnauthorized, nil)
	case errors.Is(err, auth.ErrExpiredToken):
		return apperrors.NewDomainError("TOKEN_EXPIRED", "token expired", http.StatusUnauthorized, nil)
	case errors.Is(err, auth.ErrUntrustedToken):
		return apperrors.NewDomainError("UNTRUSTED_TOKEN", "untrusted token", http.StatusUnauthorized, nil)
	case errors.Is(err, auth.ErrTokenTypeMismatch):
		return apperrors.NewDomainError("TOKEN_TYPE_MISMATCH", "token type mismatch", http.StatusUnauthorized, nil)
	case errors.Is(err, auth.ErrSessionRevoked):
		return apperrors.NewDomainError("SESSION_REVOKED", "session revoked", http.StatusUnauthorized, nil)
	case errors.Is(err, auth.ErrPrincipalNotFound):
		return apperrors.NewDomainError("PRINCIPAL_NOT_FOUND", "principal not found", http.StatusUnauthorized, nil)
	case errors.Is(err, auth.ErrStoreUnavailable):
		return apperrors.NewDomainError("STORE_UNAVAILABLE", "backing store unavailable", http.StatusServiceUnavailable, nil)
	default:
		return apperrors.ToDomainError(err)
	}
}
