package cnst

// AdminRole represents the role of an admin account
type AdminRole string

const (
	// RoleAdmin is a regular admin limited by its permission set
	RoleAdmin AdminRole = "admin"
	// RoleSuperadmin always holds the full permission set
	RoleSuperadmin AdminRole = "superadmin"
)

// PaymentStatus is derived from a client's paid amount vs total amount
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
	PaymentStatusOverdue = "overdue"
)

// Client workflow statuses. The lifecycle is a free-text label with no
// enforced transition graph; these are the values the dashboard uses.
const (
	ClientStatusDocumentsPending = "documents_pending"
	ClientStatusUnderReview      = "under_review"
	ClientStatusEstimateSent     = "cost_estimate_sent"
	ClientStatusAwaitingPayment  = "awaiting_payment"
	ClientStatusInPreparation    = "in_preparation"
	ClientStatusAwaitingApproval = "awaiting_approval"
	ClientStatusFiled            = "filed"
	ClientStatusCompleted        = "completed"
)

// Document statuses
const (
	DocumentStatusPending  = "pending"
	DocumentStatusComplete = "complete"
	DocumentStatusMissing  = "missing"
)

// Cost estimate statuses
const (
	EstimateStatusDraft           = "draft"
	EstimateStatusSent            = "sent"
	EstimateStatusAwaitingPayment = "awaiting_payment"
	EstimateStatusPaid            = "paid"
)
