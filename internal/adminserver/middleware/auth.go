package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/auth/jwt"
	"github.com/taxhub/admin-backend/internal/common/cnst"
)

// adminKey is the gin context key holding the resolved admin
const adminKey = "admin"

// Auth creates a middleware that validates the bearer token and resolves the
// current admin from the store. Invalid or expired tokens map to 401, an
// inactive account to 403.
func Auth(jwtService *jwt.Service, db database.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		admin, err := db.GetAdminByID(c.Request.Context(), claims.AdminID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !admin.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin account is inactive"})
			return
		}

		c.Set(adminKey, admin)
		c.Next()
	}
}

// CurrentAdmin returns the admin resolved by the Auth middleware
func CurrentAdmin(c *gin.Context) (*database.AdminUser, bool) {
	v, exists := c.Get(adminKey)
	if !exists {
		return nil, false
	}
	admin, ok := v.(*database.AdminUser)
	return admin, ok
}

// RequireSuperadmin fails with 403 unless the resolved admin is a superadmin.
// Used only for admin-user management and audit log endpoints.
func RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := CurrentAdmin(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if admin.Role != cnst.RoleSuperadmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "superadmin access required"})
			return
		}
		c.Next()
	}
}

// RequirePermission fails with 403 unless the resolved admin holds the given
// capability. Superadmins always pass regardless of their permission set.
func RequirePermission(perm cnst.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := CurrentAdmin(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if admin.Role == cnst.RoleSuperadmin {
			c.Next()
			return
		}
		if !admin.Permissions.Has(perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission '" + string(perm) + "' required"})
			return
		}
		c.Next()
	}
}
