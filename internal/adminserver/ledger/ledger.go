// Package ledger keeps a client's paid amount and payment status consistent
// with its payment records. The invariant: paid_amount equals the sum of the
// client's surviving payment amounts, and payment_status is a pure function
// of paid_amount vs total_amount.
package ledger

import (
	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/common/cnst"
)

// Status derives the payment status from the paid and total amounts
func Status(paid, total float64) string {
	switch {
	case paid >= total:
		return cnst.PaymentStatusPaid
	case paid > 0:
		return cnst.PaymentStatusPartial
	default:
		return cnst.PaymentStatusPending
	}
}

// Apply adjusts the client's paid amount by delta and recomputes the status.
// Used for payment creation (delta = amount) and amount updates
// (delta = new - old).
func Apply(client *database.Client, delta float64) {
	client.PaidAmount += delta
	client.PaymentStatus = Status(client.PaidAmount, client.TotalAmount)
}

// Reverse removes a deleted payment's amount from the client's ledger.
// The paid amount is clamped at zero so an over-deletion never leaves a
// negative balance.
func Reverse(client *database.Client, amount float64) {
	client.PaidAmount -= amount
	if client.PaidAmount < 0 {
		client.PaidAmount = 0
	}
	client.PaymentStatus = Status(client.PaidAmount, client.TotalAmount)
}
