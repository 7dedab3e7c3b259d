package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"github.com/penoFahmi/e-arsip-sub000/utils/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "middleware-test-secret")
	cfg := logger.DefaultConfig()
	cfg.Level = "error"
	_ = logger.Init(cfg)
	os.Exit(m.Run())
}

func ok(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) }

func request(t *testing.T, app *fiber.App, header string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(fiber.HeaderAuthorization, header)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequireAuth(), func(c *fiber.Ctx) error {
		claims, found := GetJWTClaims(c)
		require.True(t, found)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, uint(42), c.Locals(ContextUserIDKey))
		return ok(c)
	})

	access, _, err := utils.GenerateAccessToken(models.User{ID: 42, Username: "u", Role: models.RoleStaf})
	require.NoError(t, err)
	refresh, _, err := utils.GenerateRefreshToken(models.User{ID: 42, Username: "u", Role: models.RoleStaf})
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, ""))
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "Token "+access))
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "Bearer not-a-jwt"))
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "Bearer "+refresh))
	assert.Equal(t, fiber.StatusNoContent, request(t, app, "Bearer "+access))
	assert.Equal(t, fiber.StatusNoContent, request(t, app, "bearer "+access))
}

func TestLoadCurrentUserAndGuards(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := services.NewUserService(db)
	unit := testutil.CreateUnit(t, db, "KEU", nil)
	staf := testutil.CreateUser(t, db, "staf", models.RoleStaf, &unit.ID)
	kabid := testutil.CreateUser(t, db, "kabid", models.RoleLevel2, &unit.ID)
	admin, _, err := users.SeedAdmin("root", testutil.Password)
	require.NoError(t, err)

	app := fiber.New()
	chain := []fiber.Handler{RequireAuth(), LoadCurrentUser(users)}
	app.Get("/", append(chain, RequireRealEmail(), RequireLeadership(), func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		require.NotNil(t, user)
		require.NotNil(t, user.Bidang)
		assert.Equal(t, "KEU", user.Bidang.Kode)
		return ok(c)
	})...)

	bearer := func(u models.User) string {
		token, _, err := utils.GenerateAccessToken(u)
		require.NoError(t, err)
		return "Bearer " + token
	}

	assert.Equal(t, fiber.StatusNoContent, request(t, app, bearer(kabid)))
	assert.Equal(t, fiber.StatusForbidden, request(t, app, bearer(staf)))
	// admin masih memakai email placeholder
	assert.Equal(t, fiber.StatusForbidden, request(t, app, bearer(*admin)))
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, bearer(models.User{ID: 9999, Role: models.RoleLevel1})))

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", kabid.ID).Update("is_active", false).Error)
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, bearer(kabid)))
}

func TestRequireRoleFallsBackToClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequireAuth(), RequireSuperAdmin(), ok)

	token, _, err := utils.GenerateAccessToken(models.User{ID: 1, Role: models.RoleSuperAdmin})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, request(t, app, "Bearer "+token))

	token, _, err = utils.GenerateAccessToken(models.User{ID: 2, Role: models.RoleLevel1})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, request(t, app, "Bearer "+token))

	bare := fiber.New()
	bare.Get("/", RequireSuperAdmin(), ok)
	assert.Equal(t, fiber.StatusUnauthorized, request(t, bare, ""))
}
