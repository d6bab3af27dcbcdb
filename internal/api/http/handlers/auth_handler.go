package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fusion-kit/auth-service/internal/api/dto"
	"github.com/fusion-kit/auth-service/internal/auth"
	"github.com/fusion-kit/auth-service/internal/domain"
	"github.com/fusion-kit/auth-service/internal/service"
	apperrors "github.com/fusion-kit/auth-service/pkg/util"
)

// AuthHandler exposes registration, login and token lifecycle endpoints.
// Each route fixes the store context; user and admin flows share the same
// logic against disjoint stores.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/{user,admin}/register.
func (h *AuthHandler) Register(store domain.StoreContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		if err := dto.Validate(req); err != nil {
			return err
		}

		principal, err := h.auth.Register(c.UserContext(), store, req.Username, req.Email, req.Password)
		if err != nil {
			return err
		}

		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"data": dto.ProfileResponse{
				ID:       principal.ID,
				Username: principal.Username,
				Email:    principal.Email,
				Role:     principal.Role,
				IsActive: principal.IsActive,
			},
		})
	}
}

// Login handles POST /auth/{user,admin}/login.
func (h *AuthHandler) Login(store domain.StoreContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		if err := dto.Validate(req); err != nil {
			return err
		}

		pair, err := h.auth.Login(c.UserContext(), store, req.Username, req.Password)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"data": dto.TokenResponse{
				AccessToken:  pair.AccessToken,
				RefreshToken: pair.RefreshToken,
				TokenType:    "bearer",
			},
		})
	}
}

// Refresh handles POST /auth/{user,admin}/refresh.
func (h *AuthHandler) Refresh(store domain.StoreContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.RefreshRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		if err := dto.Validate(req); err != nil {
			return err
		}

		access, err := h.auth.Refresh(c.UserContext(), store, req.RefreshToken)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"data": dto.AccessTokenResponse{
				AccessToken: access,
				TokenType:   "bearer",
			},
		})
	}
}

// Logout handles POST /auth/{user,admin}/logout on protected routes.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	caller, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	if err := h.auth.Logout(c.UserContext(), caller.Store, caller.Principal.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"revoked": true}})
}

// Profile handles GET /auth/{user,admin}/profile on protected routes.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	caller, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	principal := caller.Principal
	return c.JSON(fiber.Map{
		"data": dto.ProfileResponse{
			ID:       principal.ID,
			Username: principal.Username,
			Email:    principal.Email,
			Role:     principal.Role,
			IsActive: principal.IsActive,
		},
	})
}
