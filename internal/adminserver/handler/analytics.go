package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxhub/admin-backend/internal/adminserver/cache"
	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/common/cnst"
	"github.com/taxhub/admin-backend/internal/common/dto"
)

// analyticsCacheTTL keeps the dashboard snappy without serving stale numbers
// for long; every mutation invalidates the key anyway.
const analyticsCacheTTL = 5 * time.Minute

// Analytics serves the dashboard aggregate
type Analytics struct {
	db     database.Database
	cache  *cache.Cache
	logger *zap.Logger
}

// NewAnalytics creates a new analytics handler
func NewAnalytics(db database.Database, cache *cache.Cache, logger *zap.Logger) *Analytics {
	return &Analytics{db: db, cache: cache, logger: logger.Named("handler.analytics")}
}

// Get returns the dashboard aggregate, cached for a short window
func (h *Analytics) Get(c *gin.Context) {
	ctx := c.Request.Context()

	var cached dto.AnalyticsResponse
	if h.cache.Get(ctx, analyticsCacheKey, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	resp := dto.AnalyticsResponse{
		MonthlyRevenue:  []dto.MonthlyRevenue{},
		ClientsByStatus: []dto.ClientStatusCount{},
		AdminWorkload:   []dto.AdminWorkload{},
	}

	var err error
	if resp.TotalClients, err = h.db.CountClients(ctx); err != nil {
		respondError(c, err)
		return
	}
	if resp.TotalAdmins, err = h.db.CountActiveAdmins(ctx); err != nil {
		respondError(c, err)
		return
	}
	if resp.PendingDocuments, err = h.db.CountDocumentsByStatuses(ctx, []string{cnst.DocumentStatusPending, cnst.DocumentStatusMissing}); err != nil {
		respondError(c, err)
		return
	}
	if resp.PendingPayments, err = h.db.CountClientsByPaymentStatuses(ctx, []string{cnst.PaymentStatusPending, cnst.PaymentStatusPartial}); err != nil {
		respondError(c, err)
		return
	}
	if resp.CompletedFilings, err = h.db.CountClientsByStatuses(ctx, []string{cnst.ClientStatusCompleted, cnst.ClientStatusFiled}); err != nil {
		respondError(c, err)
		return
	}
	if resp.TotalRevenue, err = h.db.SumPayments(ctx); err != nil {
		respondError(c, err)
		return
	}

	since := time.Now().UTC().AddDate(0, -5, 0)
	since = time.Date(since.Year(), since.Month(), 1, 0, 0, 0, 0, time.UTC)
	months, err := h.db.MonthlyRevenueSince(ctx, since)
	if err != nil {
		respondError(c, err)
		return
	}
	for _, m := range months {
		resp.MonthlyRevenue = append(resp.MonthlyRevenue, dto.MonthlyRevenue{
			Month:   m.Month.Format("Jan"),
			Revenue: m.Revenue,
		})
	}

	byStatus, err := h.db.ClientCountsByStatus(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	for _, s := range byStatus {
		resp.ClientsByStatus = append(resp.ClientsByStatus, dto.ClientStatusCount{Status: s.Status, Count: s.Count})
	}

	workloads, err := h.db.AdminWorkloads(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	for _, w := range workloads {
		resp.AdminWorkload = append(resp.AdminWorkload, dto.AdminWorkload{Name: w.Name, Clients: w.Clients})
	}

	h.cache.Set(ctx, analyticsCacheKey, resp, analyticsCacheTTL)
	c.JSON(http.StatusOK, resp)
}
