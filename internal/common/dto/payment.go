package dto

import "github.com/taxhub/admin-backend/internal/adminserver/database"

// CreatePaymentRequest represents a request to record a payment
type CreatePaymentRequest struct {
	ClientID string  `json:"client_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Method   string  `json:"method" binding:"required"`
	Note     string  `json:"note"`
}

// UpdatePaymentRequest represents a partial payment update. An amount change
// re-triggers the client ledger recomputation.
type UpdatePaymentRequest struct {
	Amount *float64 `json:"amount,omitempty" binding:"omitempty,gt=0"`
	Method *string  `json:"method,omitempty"`
	Note   *string  `json:"note,omitempty"`
}

// PaymentListResponse carries payments plus revenue aggregates
type PaymentListResponse struct {
	Payments     []*database.Payment `json:"payments"`
	Total        int64               `json:"total"`
	TotalRevenue float64             `json:"total_revenue"`
	AvgPayment   float64             `json:"avg_payment"`
}
