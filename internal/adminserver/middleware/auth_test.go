package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/auth/jwt"
	"github.com/taxhub/admin-backend/internal/common/cnst"
	"github.com/taxhub/admin-backend/internal/common/config"
)

func setupAuthTest(t *testing.T) (database.Database, *jwt.Service, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewStore(&config.DatabaseConfig{
		Type:   "sqlite",
		DBName: filepath.Join(t.TempDir(), "mw.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	jwtSvc, err := jwt.NewService(config.JWTConfig{
		SecretKey:       "this-is-a-very-long-secret-key-for-testing",
		AccessDuration:  time.Hour,
		RefreshDuration: 24 * time.Hour,
	})
	require.NoError(t, err)

	r := gin.New()
	r.Use(Auth(jwtSvc, db))
	r.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/super", RequireSuperadmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/gated", RequirePermission(cnst.PermAddEditPayment), func(c *gin.Context) { c.Status(http.StatusOK) })
	return db, jwtSvc, r
}

func insertAdmin(t *testing.T, db database.Database, role cnst.AdminRole, active bool, perms ...cnst.Permission) *database.AdminUser {
	t.Helper()
	admin := &database.AdminUser{
		Email:        string(role) + "@example.com",
		Name:         "Admin",
		PasswordHash: "x",
		Role:         role,
		Permissions:  database.PermissionList(perms),
		IsActive:     active,
	}
	require.NoError(t, db.CreateAdmin(context.Background(), admin))
	return admin
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingOrMalformedToken(t *testing.T) {
	_, _, r := setupAuthTest(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/open", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/open", "garbage").Code)
}

func TestAuth_DeletedAdmin(t *testing.T) {
	db, jwtSvc, r := setupAuthTest(t)
	admin := insertAdmin(t, db, cnst.RoleAdmin, true)
	token, err := jwtSvc.GenerateAccessToken(admin.ID, admin.Email, string(admin.Role))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, do(r, "/open", token).Code)

	// a valid token for a removed account stops working
	require.NoError(t, db.DeleteAdmin(context.Background(), admin.ID))
	assert.Equal(t, http.StatusUnauthorized, do(r, "/open", token).Code)
}

func TestAuth_InactiveAdmin(t *testing.T) {
	db, jwtSvc, r := setupAuthTest(t)
	admin := insertAdmin(t, db, cnst.RoleAdmin, false)
	token, err := jwtSvc.GenerateAccessToken(admin.ID, admin.Email, string(admin.Role))
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, do(r, "/open", token).Code)
}

func TestRequireSuperadmin(t *testing.T) {
	db, jwtSvc, r := setupAuthTest(t)

	staff := insertAdmin(t, db, cnst.RoleAdmin, true)
	staffToken, err := jwtSvc.GenerateAccessToken(staff.ID, staff.Email, string(staff.Role))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(r, "/super", staffToken).Code)

	boss := insertAdmin(t, db, cnst.RoleSuperadmin, true)
	bossToken, err := jwtSvc.GenerateAccessToken(boss.ID, boss.Email, string(boss.Role))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(r, "/super", bossToken).Code)
}

func TestRequirePermission(t *testing.T) {
	db, jwtSvc, r := setupAuthTest(t)

	holder := insertAdmin(t, db, cnst.RoleAdmin, true, cnst.PermAddEditPayment)
	holderToken, err := jwtSvc.GenerateAccessToken(holder.ID, holder.Email, string(holder.Role))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(r, "/gated", holderToken).Code)

	other := &database.AdminUser{
		Email: "other@example.com", Name: "Other", PasswordHash: "x",
		Role: cnst.RoleAdmin, Permissions: database.PermissionList{cnst.PermViewAnalytics}, IsActive: true,
	}
	require.NoError(t, db.CreateAdmin(context.Background(), other))
	otherToken, err := jwtSvc.GenerateAccessToken(other.ID, other.Email, string(other.Role))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(r, "/gated", otherToken).Code)

	// superadmins bypass the permission set entirely
	boss := insertAdmin(t, db, cnst.RoleSuperadmin, true)
	bossToken, err := jwtSvc.GenerateAccessToken(boss.ID, boss.Email, string(boss.Role))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(r, "/gated", bossToken).Code)
}
