package dto

import "github.com/taxhub/admin-backend/internal/adminserver/database"

// CreateClientRequest represents a request to create a client record
type CreateClientRequest struct {
	Name            string  `json:"name" binding:"required"`
	Email           string  `json:"email" binding:"required,email"`
	Phone           string  `json:"phone"`
	FilingYear      int     `json:"filing_year" binding:"required"`
	Status          string  `json:"status"`
	AssignedAdminID *string `json:"assigned_admin_id"`
	TotalAmount     float64 `json:"total_amount" binding:"omitempty,gte=0"`
}

// UpdateClientRequest represents a partial update; nil fields are left untouched
type UpdateClientRequest struct {
	Name            *string  `json:"name,omitempty"`
	Email           *string  `json:"email,omitempty" binding:"omitempty,email"`
	Phone           *string  `json:"phone,omitempty"`
	FilingYear      *int     `json:"filing_year,omitempty"`
	Status          *string  `json:"status,omitempty"`
	PaymentStatus   *string  `json:"payment_status,omitempty" binding:"omitempty,oneof=pending partial paid overdue"`
	AssignedAdminID *string  `json:"assigned_admin_id,omitempty"`
	TotalAmount     *float64 `json:"total_amount,omitempty" binding:"omitempty,gte=0"`
}

// ClientListResponse carries one page of clients
type ClientListResponse struct {
	Clients []*database.Client `json:"clients"`
	Pagination
}
