package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/common/cnst"
	"github.com/taxhub/admin-backend/internal/common/dto"
)

func TestAdmin_Create(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)

	w := env.request(t, http.MethodPost, "/api/v1/admin-users", token, dto.CreateAdminRequest{
		Email:       "staff@example.com",
		Name:        "Staff Member",
		Password:    "password123",
		Role:        "admin",
		Permissions: []string{"add_edit_client", "view_analytics"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created database.AdminUser
	decodeBody(t, w, &created)
	assert.Equal(t, cnst.RoleAdmin, created.Role)
	assert.True(t, created.Permissions.Has(cnst.PermAddEditClient))
	assert.False(t, created.Permissions.Has(cnst.PermAddEditPayment))
	assert.True(t, created.IsActive)
}

func TestAdmin_Create_SuperadminGetsFullSet(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)

	w := env.request(t, http.MethodPost, "/api/v1/admin-users", token, dto.CreateAdminRequest{
		Email:       "second@example.com",
		Name:        "Second Boss",
		Password:    "password123",
		Role:        "superadmin",
		Permissions: []string{"view_analytics"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created database.AdminUser
	decodeBody(t, w, &created)
	assert.Len(t, created.Permissions, len(cnst.AllPermissions))
}

func TestAdmin_Create_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)
	env.createAdmin(t, "staff@example.com", cnst.RoleAdmin)

	w := env.request(t, http.MethodPost, "/api/v1/admin-users", token, dto.CreateAdminRequest{
		Email:    "staff@example.com",
		Name:     "Duplicate",
		Password: "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestAdmin_RequiresSuperadmin(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "staff@example.com", cnst.RoleAdmin, cnst.PermAddEditClient)

	w := env.request(t, http.MethodGet, "/api/v1/admin-users", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/admin-users", token, dto.CreateAdminRequest{
		Email: "x@example.com", Name: "X", Password: "password123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdmin_Get_IncludesWorkload(t *testing.T) {
	env := newTestEnv(t)
	boss, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)

	c1 := env.createClient(t, "a@example.com", 2024, 100)
	c1.AssignedAdminID = &boss.ID
	require.NoError(t, env.db.UpdateClient(context.Background(), c1))
	c2 := env.createClient(t, "b@example.com", 2024, 100)
	c2.AssignedAdminID = &boss.ID
	require.NoError(t, env.db.UpdateClient(context.Background(), c2))

	w := env.request(t, http.MethodGet, "/api/v1/admin-users/"+boss.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got dto.AdminWithWorkload
	decodeBody(t, w, &got)
	assert.Equal(t, int64(2), got.ClientCount)
}

func TestAdmin_Update_CannotChangeSuperadminRole(t *testing.T) {
	env := newTestEnv(t)
	boss, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)

	role := "admin"
	w := env.request(t, http.MethodPut, "/api/v1/admin-users/"+boss.ID, token,
		dto.UpdateAdminRequest{Role: &role})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot change superadmin role")
}

func TestAdmin_Update_PromotionGrantsFullSet(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)
	staff, _ := env.createAdmin(t, "staff@example.com", cnst.RoleAdmin, cnst.PermViewAnalytics)

	role := "superadmin"
	w := env.request(t, http.MethodPut, "/api/v1/admin-users/"+staff.ID, token,
		dto.UpdateAdminRequest{Role: &role})
	require.Equal(t, http.StatusOK, w.Code)

	var got database.AdminUser
	decodeBody(t, w, &got)
	assert.Equal(t, cnst.RoleSuperadmin, got.Role)
	assert.Len(t, got.Permissions, len(cnst.AllPermissions))
}

func TestAdmin_Update_UnknownPermission(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)
	staff, _ := env.createAdmin(t, "staff@example.com", cnst.RoleAdmin)

	perms := []string{"launch_rockets"}
	w := env.request(t, http.MethodPut, "/api/v1/admin-users/"+staff.ID, token,
		dto.UpdateAdminRequest{Permissions: &perms})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown permission")
}

func TestAdmin_Delete(t *testing.T) {
	env := newTestEnv(t)
	boss, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)
	staff, _ := env.createAdmin(t, "staff@example.com", cnst.RoleAdmin)

	// deleting an admin releases its client assignments
	c := env.createClient(t, "a@example.com", 2024, 100)
	c.AssignedAdminID = &staff.ID
	require.NoError(t, env.db.UpdateClient(context.Background(), c))

	w := env.request(t, http.MethodDelete, "/api/v1/admin-users/"+staff.ID, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	got, err := env.db.GetClientByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssignedAdminID)

	// superadmin itself stays protected
	w = env.request(t, http.MethodDelete, "/api/v1/admin-users/"+boss.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot delete superadmin")
}
