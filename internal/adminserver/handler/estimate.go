package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/common/cnst"
	"github.com/taxhub/admin-backend/internal/common/dto"
)

// Estimate handles a client's cost estimates
type Estimate struct {
	db     database.Database
	logger *zap.Logger
}

// NewEstimate creates a new cost-estimate handler
func NewEstimate(db database.Database, logger *zap.Logger) *Estimate {
	return &Estimate{db: db, logger: logger.Named("handler.estimate")}
}

// List returns a client's cost estimates, newest first
func (h *Estimate) List(c *gin.Context) {
	if _, err := h.db.GetClientByID(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	estimates, err := h.db.ListEstimates(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"estimates": estimates, "total": len(estimates)})
}

// Create issues a new cost estimate for a client
func (h *Estimate) Create(c *gin.Context) {
	var req dto.CreateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.db.GetClientByID(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = cnst.EstimateStatusDraft
	}

	estimate := &database.CostEstimate{
		ClientID:    c.Param("id"),
		ServiceCost: req.ServiceCost,
		Discount:    req.Discount,
		GstHst:      req.GstHst,
		Total:       req.Total,
		Status:      status,
	}
	if err := h.db.CreateEstimate(c.Request.Context(), estimate); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, estimate)
}

// Update applies a partial update to a cost estimate
func (h *Estimate) Update(c *gin.Context) {
	var req dto.UpdateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	estimate, err := h.db.GetEstimateByID(c.Request.Context(), c.Param("estimateId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if estimate.ClientID != c.Param("id") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if req.ServiceCost != nil {
		estimate.ServiceCost = *req.ServiceCost
	}
	if req.Discount != nil {
		estimate.Discount = *req.Discount
	}
	if req.GstHst != nil {
		estimate.GstHst = *req.GstHst
	}
	if req.Total != nil {
		estimate.Total = *req.Total
	}
	if req.Status != nil {
		estimate.Status = *req.Status
	}

	if err := h.db.UpdateEstimate(c.Request.Context(), estimate); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Debug("cost estimate updated",
		zap.String("estimate", estimate.ID),
		zap.String("status", estimate.Status),
		zap.String("total", fmt.Sprintf("%.2f", estimate.Total)))
	c.JSON(http.StatusOK, estimate)
}

// Delete removes a cost estimate
func (h *Estimate) Delete(c *gin.Context) {
	estimate, err := h.db.GetEstimateByID(c.Request.Context(), c.Param("estimateId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if estimate.ClientID != c.Param("id") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err := h.db.DeleteEstimate(c.Request.Context(), estimate.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
