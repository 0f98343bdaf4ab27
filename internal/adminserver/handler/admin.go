package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taxhub/admin-backend/internal/adminserver/cache"
	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/adminserver/middleware"
	"github.com/taxhub/admin-backend/internal/common/cnst"
	"github.com/taxhub/admin-backend/internal/common/dto"
)

// Admin handles admin-user management. All routes are superadmin only.
type Admin struct {
	db     database.Database
	cache  *cache.Cache
	logger *zap.Logger
}

// NewAdmin creates a new admin-user handler
func NewAdmin(db database.Database, cache *cache.Cache, logger *zap.Logger) *Admin {
	return &Admin{db: db, cache: cache, logger: logger.Named("handler.admin")}
}

// List returns all admin accounts, newest first
func (h *Admin) List(c *gin.Context) {
	admins, err := h.db.ListAdmins(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, admins)
}

// Get returns one admin together with its assigned client count
func (h *Admin) Get(c *gin.Context) {
	admin, err := h.db.GetAdminByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	count, err := h.db.CountAssignedClients(c.Request.Context(), admin.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AdminWithWorkload{AdminUser: admin, ClientCount: count})
}

// Create adds a new admin account. A superadmin always receives the full
// permission set regardless of the requested grants.
func (h *Admin) Create(c *gin.Context) {
	var req dto.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.db.GetAdminByEmail(c.Request.Context(), req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "admin with this email already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	role := cnst.AdminRole(req.Role)
	if role == "" {
		role = cnst.RoleAdmin
	}

	admin := &database.AdminUser{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         role,
		Permissions:  permissionsForRole(role, req.Permissions),
		IsActive:     true,
	}

	current, _ := middleware.CurrentAdmin(c)
	err = h.db.Transaction(c.Request.Context(), func(ctx context.Context) error {
		if err := h.db.CreateAdmin(ctx, admin); err != nil {
			return err
		}
		return recordAudit(ctx, h.db, "Admin Created", "admin", admin.ID, current.ID,
			"", "Admin: "+admin.Name)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.DeletePattern(c.Request.Context(), "analytics:*")
	c.JSON(http.StatusCreated, admin)
}

// Update applies a partial update. A superadmin's role can never be changed
// away from superadmin.
func (h *Admin) Update(c *gin.Context) {
	var req dto.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := h.db.GetAdminByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if admin.Role == cnst.RoleSuperadmin && req.Role != nil && *req.Role != string(cnst.RoleSuperadmin) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot change superadmin role"})
		return
	}

	oldValues := make(map[string]string)
	newValues := make(map[string]string)
	apply := func(field, before, after string) {
		oldValues[field] = before
		newValues[field] = after
	}

	if req.Name != nil {
		apply("name", admin.Name, *req.Name)
		admin.Name = *req.Name
	}
	if req.Role != nil {
		apply("role", string(admin.Role), *req.Role)
		admin.Role = cnst.AdminRole(*req.Role)
	}
	if req.Permissions != nil {
		perms := make(database.PermissionList, 0, len(*req.Permissions))
		for _, p := range *req.Permissions {
			perm := cnst.Permission(p)
			if !perm.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown permission: " + p})
				return
			}
			perms = append(perms, perm)
		}
		apply("permissions", fmt.Sprint(admin.Permissions), fmt.Sprint(perms))
		admin.Permissions = perms
	}
	if req.Avatar != nil {
		apply("avatar", admin.Avatar, *req.Avatar)
		admin.Avatar = *req.Avatar
	}
	if req.IsActive != nil {
		apply("is_active", fmt.Sprint(admin.IsActive), fmt.Sprint(*req.IsActive))
		admin.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}
		admin.PasswordHash = string(hash)
	}

	// A superadmin always holds the full capability set.
	if admin.Role == cnst.RoleSuperadmin {
		admin.Permissions = allPermissions()
	}

	current, _ := middleware.CurrentAdmin(c)
	err = h.db.Transaction(c.Request.Context(), func(ctx context.Context) error {
		if err := h.db.UpdateAdmin(ctx, admin); err != nil {
			return err
		}
		return recordAudit(ctx, h.db, "Admin Updated", "admin", admin.ID, current.ID,
			fmt.Sprint(oldValues), fmt.Sprint(newValues))
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.DeletePattern(c.Request.Context(), "analytics:*")
	c.JSON(http.StatusOK, admin)
}

// Delete removes an admin account. Superadmin accounts cannot be deleted.
func (h *Admin) Delete(c *gin.Context) {
	admin, err := h.db.GetAdminByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if admin.Role == cnst.RoleSuperadmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete superadmin"})
		return
	}

	current, _ := middleware.CurrentAdmin(c)
	err = h.db.Transaction(c.Request.Context(), func(ctx context.Context) error {
		if err := h.db.DeleteAdmin(ctx, admin.ID); err != nil {
			return err
		}
		return recordAudit(ctx, h.db, "Admin Deleted", "admin", admin.ID, current.ID,
			"Admin: "+admin.Name, "")
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.DeletePattern(c.Request.Context(), "analytics:*")
	c.Status(http.StatusNoContent)
}

func permissionsForRole(role cnst.AdminRole, requested []string) database.PermissionList {
	if role == cnst.RoleSuperadmin {
		return allPermissions()
	}
	perms := make(database.PermissionList, 0, len(requested))
	for _, p := range requested {
		perm := cnst.Permission(p)
		if perm.Valid() {
			perms = append(perms, perm)
		}
	}
	return perms
}

func allPermissions() database.PermissionList {
	perms := make(database.PermissionList, len(cnst.AllPermissions))
	copy(perms, cnst.AllPermissions)
	return perms
}
