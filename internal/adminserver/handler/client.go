package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxhub/admin-backend/internal/adminserver/cache"
	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/adminserver/ledger"
	"github.com/taxhub/admin-backend/internal/adminserver/middleware"
	"github.com/taxhub/admin-backend/internal/common/cnst"
	"github.com/taxhub/admin-backend/internal/common/dto"
)

// Client handles client-record CRUD
type Client struct {
	db     database.Database
	cache  *cache.Cache
	logger *zap.Logger
}

// NewClient creates a new client handler
func NewClient(db database.Database, cache *cache.Cache, logger *zap.Logger) *Client {
	return &Client{db: db, cache: cache, logger: logger.Named("handler.client")}
}

// List returns a page of clients with optional status/year/email/search filters
func (h *Client) List(c *gin.Context) {
	page, pageSize := pageParams(c, 20)
	year, _ := strconv.Atoi(c.Query("year"))

	filter := database.ClientFilter{
		Status:   c.Query("status"),
		Year:     year,
		Email:    c.Query("email"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}

	clients, total, err := h.db.ListClients(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ClientListResponse{
		Clients:    clients,
		Pagination: dto.NewPagination(page, pageSize, total),
	})
}

// Get returns a single client by id
func (h *Client) Get(c *gin.Context) {
	client, err := h.db.GetClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// Create adds a client record. The (email, filing_year) pair must be unique.
func (h *Client) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(req.Email)
	if _, err := h.db.GetClientByEmailYear(c.Request.Context(), email, req.FilingYear); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client with this email already exists for this year"})
		return
	}

	status := req.Status
	if status == "" {
		status = cnst.ClientStatusDocumentsPending
	}

	client := &database.Client{
		Name:            req.Name,
		Email:           email,
		Phone:           req.Phone,
		FilingYear:      req.FilingYear,
		Status:          status,
		PaymentStatus:   cnst.PaymentStatusPending,
		AssignedAdminID: req.AssignedAdminID,
		TotalAmount:     req.TotalAmount,
	}

	current, _ := middleware.CurrentAdmin(c)
	err := h.db.Transaction(c.Request.Context(), func(ctx context.Context) error {
		if err := h.db.CreateClient(ctx, client); err != nil {
			return err
		}
		return recordAudit(ctx, h.db, "Client Created", "client", client.ID, current.ID,
			"", "Client: "+client.Name)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.DeletePattern(c.Request.Context(), "analytics:*")
	c.JSON(http.StatusCreated, client)
}

// Update applies a partial update to a client
func (h *Client) Update(c *gin.Context) {
	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.db.GetClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	oldValues := make(map[string]string)
	newValues := make(map[string]string)
	apply := func(field, before, after string) {
		oldValues[field] = before
		newValues[field] = after
	}

	if req.Name != nil {
		apply("name", client.Name, *req.Name)
		client.Name = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(*req.Email)
		apply("email", client.Email, email)
		client.Email = email
	}
	if req.Phone != nil {
		apply("phone", client.Phone, *req.Phone)
		client.Phone = *req.Phone
	}
	if req.FilingYear != nil {
		apply("filing_year", strconv.Itoa(client.FilingYear), strconv.Itoa(*req.FilingYear))
		client.FilingYear = *req.FilingYear
	}
	if req.Status != nil {
		apply("status", client.Status, *req.Status)
		client.Status = *req.Status
	}
	if req.PaymentStatus != nil {
		apply("payment_status", client.PaymentStatus, *req.PaymentStatus)
		client.PaymentStatus = *req.PaymentStatus
	}
	if req.AssignedAdminID != nil {
		before := ""
		if client.AssignedAdminID != nil {
			before = *client.AssignedAdminID
		}
		apply("assigned_admin_id", before, *req.AssignedAdminID)
		client.AssignedAdminID = req.AssignedAdminID
	}
	if req.TotalAmount != nil {
		apply("total_amount", fmt.Sprint(client.TotalAmount), fmt.Sprint(*req.TotalAmount))
		client.TotalAmount = *req.TotalAmount
		// A changed total can flip the derived payment status.
		client.PaymentStatus = ledger.Status(client.PaidAmount, client.TotalAmount)
	}

	if req.Email != nil || req.FilingYear != nil {
		if existing, err := h.db.GetClientByEmailYear(c.Request.Context(), client.Email, client.FilingYear); err == nil && existing.ID != client.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client with this email already exists for this year"})
			return
		}
	}

	current, _ := middleware.CurrentAdmin(c)
	err = h.db.Transaction(c.Request.Context(), func(ctx context.Context) error {
		if err := h.db.UpdateClient(ctx, client); err != nil {
			return err
		}
		return recordAudit(ctx, h.db, "Client Updated", "client", client.ID, current.ID,
			fmt.Sprint(oldValues), fmt.Sprint(newValues))
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.DeletePattern(c.Request.Context(), "analytics:*")
	c.JSON(http.StatusOK, client)
}

// Delete removes a client and everything it owns
func (h *Client) Delete(c *gin.Context) {
	client, err := h.db.GetClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	current, _ := middleware.CurrentAdmin(c)
	err = h.db.Transaction(c.Request.Context(), func(ctx context.Context) error {
		if err := h.db.DeleteClient(ctx, client.ID); err != nil {
			return err
		}
		return recordAudit(ctx, h.db, "Client Deleted", "client", client.ID, current.ID,
			"Client: "+client.Name, "")
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.DeletePattern(c.Request.Context(), "analytics:*")
	c.Status(http.StatusNoContent)
}
