package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/adminserver/taxforms"
	"github.com/taxhub/admin-backend/internal/common/cnst"
)

// analyticsCacheKey is the advisory cache key for the dashboard aggregate.
// Payment, client, document and admin mutations invalidate it by pattern.
const analyticsCacheKey = "analytics:dashboard"

// statusFromError maps store and integration errors to HTTP status codes
func statusFromError(err error) int {
	switch {
	case errors.Is(err, cnst.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, cnst.ErrConflict), errors.Is(err, cnst.ErrSuperadminProtected):
		return http.StatusBadRequest
	case errors.Is(err, taxforms.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the stable error shape for a failure
func respondError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), gin.H{"error": err.Error()})
}

// pageParams reads page and page_size query values, clamping page_size to 1..100
func pageParams(c *gin.Context, defaultSize int) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// recordAudit appends one immutable audit entry for a mutating action. Called
// inside the same transaction as the primary mutation so both commit or roll
// back together.
func recordAudit(ctx context.Context, db database.Database, action, entityType, entityID, performedBy, oldValue, newValue string) error {
	return db.CreateAuditLog(ctx, &database.AuditLog{
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		OldValue:      oldValue,
		NewValue:      newValue,
		PerformedByID: performedBy,
	})
}
