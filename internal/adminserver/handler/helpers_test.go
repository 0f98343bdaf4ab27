package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taxhub/admin-backend/internal/adminserver/cache"
	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/adminserver/taxforms"
	"github.com/taxhub/admin-backend/internal/auth/jwt"
	"github.com/taxhub/admin-backend/internal/common/cnst"
	"github.com/taxhub/admin-backend/internal/common/config"
)

const testPassword = "s3cure-enough"

type testEnv struct {
	db     database.Database
	cache  *cache.Cache
	redis  *miniredis.Miniredis
	jwt    *jwt.Service
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewStore(&config.DatabaseConfig{
		Type:   "sqlite",
		DBName: filepath.Join(t.TempDir(), "admin.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mr := miniredis.RunT(t)
	cch := cache.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:", time.Hour, zap.NewNop())

	jwtSvc, err := jwt.NewService(config.JWTConfig{
		SecretKey:       "this-is-a-very-long-secret-key-for-testing",
		AccessDuration:  time.Hour,
		RefreshDuration: 24 * time.Hour,
	})
	require.NoError(t, err)

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:       db,
		Cache:    cch,
		JWT:      jwtSvc,
		TaxForms: taxforms.NewClient(&config.TaxFormsConfig{BaseURL: "http://127.0.0.1:1/api/v1", Timeout: time.Second}, zap.NewNop()),
		Logger:   zap.NewNop(),
	})

	return &testEnv{db: db, cache: cch, redis: mr, jwt: jwtSvc, router: r}
}

// createAdmin inserts an admin directly into the store and returns its access
// token for authorized requests.
func (e *testEnv) createAdmin(t *testing.T, email string, role cnst.AdminRole, perms ...cnst.Permission) (*database.AdminUser, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	require.NoError(t, err)

	if role == cnst.RoleSuperadmin {
		perms = cnst.AllPermissions
	}
	admin := &database.AdminUser{
		Email:        email,
		Name:         "Test Admin",
		PasswordHash: string(hash),
		Role:         role,
		Permissions:  database.PermissionList(perms),
		IsActive:     true,
	}
	require.NoError(t, e.db.CreateAdmin(context.Background(), admin))

	token, err := e.jwt.GenerateAccessToken(admin.ID, admin.Email, string(admin.Role))
	require.NoError(t, err)
	return admin, token
}

func (e *testEnv) createClient(t *testing.T, email string, year int, total float64) *database.Client {
	t.Helper()
	c := &database.Client{
		Name:          "Test Client",
		Email:         email,
		FilingYear:    year,
		Status:        cnst.ClientStatusDocumentsPending,
		PaymentStatus: cnst.PaymentStatusPending,
		TotalAmount:   total,
	}
	require.NoError(t, e.db.CreateClient(context.Background(), c))
	return c
}

// request performs an HTTP request against the test router. A nil body sends
// no payload; a non-nil one is marshaled to JSON.
func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}
