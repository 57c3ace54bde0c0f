package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/spareparts-api/internal/application/dto"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/spareparts-api/pkg/jwt"
)

// Locals key for the resolved Principal.
const LocalPrincipal = "principal"

// AuthMiddleware validates the Bearer token and stores the resolved
// Principal in c.Locals. Token issuance lives upstream; here the claims
// are only read.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header required"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "format: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "empty token"})
		}
		claims, err := pkgjwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "invalid or expired token"})
		}
		if claims.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token carries no user"})
		}
		c.Locals(LocalPrincipal, entity.Principal{
			UserID: claims.UserID,
			Role:   claims.Role,
			Location: entity.Location{
				Type: entity.LocationType(claims.LocationType),
				ID:   claims.LocationID,
			},
		})
		return c.Next()
	}
}

// RequireRole authorizes only the listed roles past this point.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p.Role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "token carries no role"})
		}
		for _, r := range roles {
			if p.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "role not allowed"})
	}
}

// GetPrincipal returns the Principal stored by AuthMiddleware; zero value
// when absent.
func GetPrincipal(c *fiber.Ctx) entity.Principal {
	v := c.Locals(LocalPrincipal)
	if v == nil {
		return entity.Principal{}
	}
	p, _ := v.(entity.Principal)
	return p
}

// GetRole returns the authenticated role, "" when absent.
func GetRole(c *fiber.Ctx) string {
	return GetPrincipal(c).Role
}
