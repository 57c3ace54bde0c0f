package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	apphttp "github.com/jhoicas/spareparts-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/spareparts-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "spareparts-api-test"
	testExpMin    = 60
)

// buildTestApp wires a minimal fiber app with the auth middleware, an
// optional role gate and a handler that echoes the resolved principal.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{apphttp.AuthMiddleware(testJWTSecret)}
	if len(allowedRoles) > 0 {
		handlers = append(handlers, apphttp.RequireRole(allowedRoles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p := apphttp.GetPrincipal(c)
		return c.JSON(fiber.Map{
			"user_id":       p.UserID,
			"role":          p.Role,
			"location_type": string(p.Location.Type),
			"location_id":   p.Location.ID,
		})
	})
	app.Get("/protected", handlers...)
	return app
}

func tokenFor(t *testing.T, role, locationType, locationID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, locationType, locationID, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_ResolvesPrincipal(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, tokenFor(t, entity.RoleServiceCenter, "service_center", "SC1"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, entity.RoleServiceCenter, body["role"])
	assert.Equal(t, "service_center", body["location_type"])
	assert.Equal(t, "SC1", body["location_id"])
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "Token abc123")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	app := buildTestApp()
	tok, err := pkgjwt.Generate("another-secret", testUserID, entity.RoleRSM, "", "", testIssuer, testExpMin)
	require.NoError(t, err)
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	app := buildTestApp()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, entity.RoleRSM, "", "", testIssuer, -5)
	require.NoError(t, err)
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_Allowed(t *testing.T) {
	app := buildTestApp(entity.RoleRSM, entity.RoleHOD)
	resp := doRequest(t, app, tokenFor(t, entity.RoleHOD, "", ""))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_Forbidden(t *testing.T) {
	app := buildTestApp(entity.RoleRSM, entity.RoleHOD)
	resp := doRequest(t, app, tokenFor(t, entity.RoleTechnician, "technician", "T1"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
