package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/common/dto"
)

// AuditLog serves the append-only audit trail
type AuditLog struct {
	db     database.Database
	logger *zap.Logger
}

// NewAuditLog creates a new audit log handler
func NewAuditLog(db database.Database, logger *zap.Logger) *AuditLog {
	return &AuditLog{db: db, logger: logger.Named("handler.auditlog")}
}

// List returns a page of audit entries, newest first
func (h *AuditLog) List(c *gin.Context) {
	page, pageSize := pageParams(c, 50)

	filter := database.AuditLogFilter{
		EntityType: c.Query("entity_type"),
		Action:     c.Query("action"),
		Page:       page,
		PageSize:   pageSize,
	}

	logs, total, err := h.db.ListAuditLogs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	// The store query already excludes legacy rows; keep a row-level guard
	// in case older data slips through a driver quirk.
	filtered := make([]*database.AuditLog, 0, len(logs))
	for _, entry := range logs {
		if entry.EntityType == "" || entry.EntityID == "" || entry.PerformedByID == "" {
			continue
		}
		filtered = append(filtered, entry)
	}

	c.JSON(http.StatusOK, dto.AuditLogListResponse{
		Logs:       filtered,
		Pagination: dto.NewPagination(page, pageSize, total),
	})
}
