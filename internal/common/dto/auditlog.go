package dto

import "github.com/taxhub/admin-backend/internal/adminserver/database"

// AuditLogListResponse carries one page of audit entries
type AuditLogListResponse struct {
	Logs []*database.AuditLog `json:"logs"`
	Pagination
}
