package dto

import (
	"time"

	"github.com/taxhub/admin-backend/internal/adminserver/database"
)

// CreateDocumentRequest represents a request to track a document
type CreateDocumentRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required"`
	Status   string `json:"status" binding:"omitempty,oneof=pending complete missing"`
	Notes    string `json:"notes"`
}

// UpdateDocumentRequest is the partial-update schema used internally
type UpdateDocumentRequest struct {
	Name       *string    `json:"name,omitempty"`
	Type       *string    `json:"type,omitempty"`
	Status     *string    `json:"status,omitempty" binding:"omitempty,oneof=pending complete missing"`
	Version    *int       `json:"version,omitempty"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

// DocumentListResponse carries documents plus the unfiltered match count
type DocumentListResponse struct {
	Documents []*database.Document `json:"documents"`
	Total     int64                `json:"total"`
}
