package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"catedra/pkg/apperrors"
	"catedra/pkg/models"
	"catedra/pkg/policy"
)

const principalKey = "principal"

// UserFinder resolves the user a token claims to be. Tokens outlive
// accounts, so the lookup re-checks existence on every request.
type UserFinder interface {
	GetByID(id string) (models.User, error)
}

// Auth validates the Bearer token and stores the resulting Principal in the
// request locals.
func Auth(jwtSecret string, users UserFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			return apperrors.Authentication("Token não fornecido")
		}

		tokenStr := strings.TrimSpace(auth[7:])
		if tokenStr == "" {
			return apperrors.Authentication("Token inválido")
		}

		token, err := jwt.ParseWithClaims(tokenStr, &jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return apperrors.Authentication("Token expirado")
			}
			return apperrors.Authentication("Token inválido")
		}
		if !token.Valid {
			return apperrors.Authentication("Token inválido")
		}

		claims := token.Claims.(*jwt.MapClaims)
		id, _ := (*claims)["id"].(string)
		if id == "" {
			return apperrors.Authentication("Token inválido")
		}

		user, err := users.GetByID(id)
		if err != nil {
			return apperrors.Authentication("Usuário não encontrado")
		}

		c.Locals(principalKey, policy.Principal{ID: user.ID, Email: user.Email, Role: user.Role})
		return c.Next()
	}
}

// RequireRoles gates a route to the given roles. It assumes Auth ran first.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := Principal(c)
		if !ok {
			return apperrors.Authentication("Usuário não autenticado")
		}
		for _, role := range roles {
			if p.Role == role {
				return c.Next()
			}
		}
		return apperrors.Authorization("Acesso negado. Permissão insuficiente.")
	}
}

// Principal returns the authenticated principal stored by Auth.
func Principal(c *fiber.Ctx) (policy.Principal, bool) {
	p, ok := c.Locals(principalKey).(policy.Principal)
	return p, ok
}
