package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fusion-kit/auth-service/internal/domain"
	apperrors "github.com/fusion-kit/auth-service/pkg/util"
)

const principalKey = "auth_principal"

// AuthenticatedPrincipal is the resolved caller attached to the request.
type AuthenticatedPrincipal struct {
	Store     domain.StoreContext
	Principal *domain.Principal
	Claims    *Claims
}

// Middleware verifies bearer access tokens and resolves principals against
// the store the route group selected.
type Middleware struct {
	tokens   *TokenService
	resolver *PrincipalResolver
}

// NewMiddleware constructs the middleware.
func NewMiddleware(tokens *TokenService, resolver *PrincipalResolver) *Middleware {
	return &Middleware{tokens: tokens, resolver: resolver}
}

// Require returns a handler enforcing authentication for the given store
// context. The context is fixed per route group, never read from the token.
func (m *Middleware) Require(store domain.StoreContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperrors.NewUnauthorized("missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return apperrors.NewUnauthorized("invalid authorization header")
		}

		claims, err := m.tokens.Verify(c.UserContext(), parts[1], domain.TokenTypeAccess)
		if err != nil {
			return err
		}

		id, err := claims.PrincipalID()
		if err != nil {
			return err
		}

		principal, err := m.resolver.Resolve(c.UserContext(), store, id)
		if err != nil {
			return err
		}
		if !principal.IsActive {
			return apperrors.NewUnauthorized("principal inactive")
		}

		c.Locals(principalKey, &AuthenticatedPrincipal{
			Store:     store,
			Principal: principal,
			Claims:    claims,
		})
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*AuthenticatedPrincipal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*AuthenticatedPrincipal)
	return principal, ok
}
