package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/adminserver/taxforms"
)

// TaxForm proxies tax-form listings from the sibling client backend
type TaxForm struct {
	db     database.Database
	forms  *taxforms.Client
	logger *zap.Logger
}

// NewTaxForm creates a new tax-forms handler
func NewTaxForm(db database.Database, forms *taxforms.Client, logger *zap.Logger) *TaxForm {
	return &TaxForm{db: db, forms: forms, logger: logger.Named("handler.taxform")}
}

// List returns tax forms from the sibling backend. A client_id or
// client_email filter is resolved against the local client table first so
// unknown clients fail fast with a 404 instead of an upstream round trip.
func (h *TaxForm) List(c *gin.Context) {
	ctx := c.Request.Context()

	if clientID := c.Query("client_id"); clientID != "" {
		if _, err := h.db.GetClientByID(ctx, clientID); err != nil {
			respondError(c, err)
			return
		}
	}
	if email := c.Query("client_email"); email != "" {
		if _, err := h.db.GetClientByEmail(ctx, strings.ToLower(email)); err != nil {
			respondError(c, err)
			return
		}
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	resp, err := h.forms.ListForms(ctx, taxforms.Query{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
