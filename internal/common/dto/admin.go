package dto

import "github.com/taxhub/admin-backend/internal/adminserver/database"

// CreateAdminRequest represents a request to create an admin account
type CreateAdminRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Name        string   `json:"name" binding:"required"`
	Password    string   `json:"password" binding:"required,min=8"`
	Role        string   `json:"role" binding:"omitempty,oneof=admin superadmin"`
	Permissions []string `json:"permissions"`
}

// UpdateAdminRequest represents a partial update; nil fields are left untouched
type UpdateAdminRequest struct {
	Name        *string   `json:"name,omitempty"`
	Role        *string   `json:"role,omitempty" binding:"omitempty,oneof=admin superadmin"`
	Permissions *[]string `json:"permissions,omitempty"`
	Avatar      *string   `json:"avatar,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
	Password    *string   `json:"password,omitempty" binding:"omitempty,min=8"`
}

// AdminWithWorkload is an admin profile plus its assigned client count
type AdminWithWorkload struct {
	*database.AdminUser
	ClientCount int64 `json:"client_count"`
}
