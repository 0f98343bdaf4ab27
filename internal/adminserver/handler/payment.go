package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxhub/admin-backend/internal/adminserver/cache"
	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/adminserver/ledger"
	"github.com/taxhub/admin-backend/internal/adminserver/middleware"
	"github.com/taxhub/admin-backend/internal/common/dto"
)

// Payment handles payment CRUD. Every mutation runs inside one store
// transaction together with the client ledger recomputation and the audit
// entry, so the ledger invariant is never observable in a broken state.
type Payment struct {
	db     database.Database
	cache  *cache.Cache
	logger *zap.Logger
}

// NewPayment creates a new payment handler
func NewPayment(db database.Database, cache *cache.Cache, logger *zap.Logger) *Payment {
	return &Payment{db: db, cache: cache, logger: logger.Named("handler.payment")}
}

// List returns payments, optionally for one client, with revenue aggregates
func (h *Payment) List(c *gin.Context) {
	payments, err := h.db.ListPayments(c.Request.Context(), c.Query("client_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var totalRevenue float64
	for _, p := range payments {
		totalRevenue += p.Amount
	}
	var avg float64
	if len(payments) > 0 {
		avg = totalRevenue / float64(len(payments))
	}

	c.JSON(http.StatusOK, dto.PaymentListResponse{
		Payments:     payments,
		Total:        int64(len(payments)),
		TotalRevenue: totalRevenue,
		AvgPayment:   avg,
	})
}

// Create records a payment and adds its amount to the client's ledger
func (h *Payment) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, _ := middleware.CurrentAdmin(c)
	payment := &database.Payment{
		ClientID:    req.ClientID,
		Amount:      req.Amount,
		Method:      req.Method,
		Note:        req.Note,
		CreatedByID: current.ID,
	}

	err := h.db.Transaction(c.Request.Context(), func(ctx context.Context) error {
		client, err := h.db.GetClientByID(ctx, req.ClientID)
		if err != nil {
			return err
		}
		if err := h.db.CreatePayment(ctx, payment); err != nil {
			return err
		}
		ledger.Apply(client, payment.Amount)
		if err := h.db.UpdateClient(ctx, client); err != nil {
			return err
		}
		return recordAudit(ctx, h.db, "Payment Added", "payment", payment.ID, current.ID,
			"", fmt.Sprintf("$%.2f via %s", payment.Amount, payment.Method))
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.DeletePattern(c.Request.Context(), "analytics:*")
	c.JSON(http.StatusCreated, payment)
}

// Update applies a partial update; an amount change re-applies the delta to
// the client's ledger.
func (h *Payment) Update(c *gin.Context) {
	var req dto.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, _ := middleware.CurrentAdmin(c)
	var payment *database.Payment
	err := h.db.Transaction(c.Request.Context(), func(ctx context.Context) error {
		var err error
		payment, err = h.db.GetPaymentByID(ctx, c.Param("id"))
		if err != nil {
			return err
		}
		client, err := h.db.GetClientByID(ctx, payment.ClientID)
		if err != nil {
			return err
		}

		oldAmount := payment.Amount
		changes := make(map[string]string)
		if req.Amount != nil {
			payment.Amount = *req.Amount
			changes["amount"] = fmt.Sprint(*req.Amount)
		}
		if req.Method != nil {
			payment.Method = *req.Method
			changes["method"] = *req.Method
		}
		if req.Note != nil {
			payment.Note = *req.Note
			changes["note"] = *req.Note
		}

		if err := h.db.UpdatePayment(ctx, payment); err != nil {
			return err
		}

		if req.Amount != nil {
			ledger.Apply(client, payment.Amount-oldAmount)
			if err := h.db.UpdateClient(ctx, client); err != nil {
				return err
			}
		}

		return recordAudit(ctx, h.db, "Payment Updated", "payment", payment.ID, current.ID,
			fmt.Sprintf("Old: $%.2f", oldAmount), fmt.Sprint(changes))
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.DeletePattern(c.Request.Context(), "analytics:*")
	c.JSON(http.StatusOK, payment)
}

// Delete removes a payment and reverses its effect on the client's ledger
func (h *Payment) Delete(c *gin.Context) {
	current, _ := middleware.CurrentAdmin(c)
	err := h.db.Transaction(c.Request.Context(), func(ctx context.Context) error {
		payment, err := h.db.GetPaymentByID(ctx, c.Param("id"))
		if err != nil {
			return err
		}
		client, err := h.db.GetClientByID(ctx, payment.ClientID)
		if err != nil {
			return err
		}

		if client.PaidAmount < payment.Amount {
			// The clamp below absorbs the difference; log it so an
			// inconsistent ledger is at least detectable.
			h.logger.Warn("payment deletion exceeds recorded paid amount",
				zap.String("client", client.ID),
				zap.Float64("paid", client.PaidAmount),
				zap.Float64("amount", payment.Amount))
		}

		ledger.Reverse(client, payment.Amount)
		if err := h.db.UpdateClient(ctx, client); err != nil {
			return err
		}
		if err := h.db.DeletePayment(ctx, payment.ID); err != nil {
			return err
		}
		return recordAudit(ctx, h.db, "Payment Deleted", "payment", payment.ID, current.ID,
			fmt.Sprintf("$%.2f via %s", payment.Amount, payment.Method), "")
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.DeletePattern(c.Request.Context(), "analytics:*")
	c.Status(http.StatusNoContent)
}
