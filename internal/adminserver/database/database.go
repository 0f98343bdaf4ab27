package database

import (
	"context"
	"time"
)

// ClientFilter narrows client list queries
type ClientFilter struct {
	Status string
	Year   int
	// Email is an exact match used by the sync integration; when set it
	// takes precedence over Search.
	Email    string
	Search   string
	Page     int
	PageSize int
}

// DocumentFilter narrows document list queries
type DocumentFilter struct {
	Status   string
	ClientID string
	Search   string
}

// AuditLogFilter narrows audit log queries
type AuditLogFilter struct {
	EntityType string
	// Action is matched as a case-insensitive substring
	Action   string
	Page     int
	PageSize int
}

// MonthlyRevenue is one month's summed payment amounts
type MonthlyRevenue struct {
	Month   time.Time
	Revenue float64
}

// StatusCount is a count of clients sharing one workflow status
type StatusCount struct {
	Status string
	Count  int64
}

// AdminWorkload is the number of clients assigned to one admin
type AdminWorkload struct {
	AdminID string
	Name    string
	Clients int64
}

// Database defines the methods for store operations.
type Database interface {
	// Close closes the database connection.
	Close() error

	// Transaction runs fn inside a single store transaction. The transaction
	// is carried in the context passed to fn; all Database calls made with
	// that context join it.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Admin users
	CreateAdmin(ctx context.Context, admin *AdminUser) error
	GetAdminByID(ctx context.Context, id string) (*AdminUser, error)
	GetAdminByEmail(ctx context.Context, email string) (*AdminUser, error)
	ListAdmins(ctx context.Context) ([]*AdminUser, error)
	UpdateAdmin(ctx context.Context, admin *AdminUser) error
	DeleteAdmin(ctx context.Context, id string) error
	CountAssignedClients(ctx context.Context, adminID string) (int64, error)

	// Clients
	CreateClient(ctx context.Context, client *Client) error
	GetClientByID(ctx context.Context, id string) (*Client, error)
	GetClientByEmail(ctx context.Context, email string) (*Client, error)
	GetClientByEmailYear(ctx context.Context, email string, year int) (*Client, error)
	ListClients(ctx context.Context, filter ClientFilter) ([]*Client, int64, error)
	UpdateClient(ctx context.Context, client *Client) error
	DeleteClient(ctx context.Context, id string) error

	// Documents
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocumentByID(ctx context.Context, id string) (*Document, error)
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, int64, error)
	UpdateDocument(ctx context.Context, doc *Document) error
	DeleteDocument(ctx context.Context, id string) error

	// Payments
	CreatePayment(ctx context.Context, payment *Payment) error
	GetPaymentByID(ctx context.Context, id string) (*Payment, error)
	ListPayments(ctx context.Context, clientID string) ([]*Payment, error)
	UpdatePayment(ctx context.Context, payment *Payment) error
	DeletePayment(ctx context.Context, id string) error

	// Notes
	CreateNote(ctx context.Context, note *Note) error
	GetNoteByID(ctx context.Context, id string) (*Note, error)
	ListNotes(ctx context.Context, clientID string) ([]*Note, error)
	DeleteNote(ctx context.Context, id string) error

	// Cost estimates
	CreateEstimate(ctx context.Context, estimate *CostEstimate) error
	GetEstimateByID(ctx context.Context, id string) (*CostEstimate, error)
	ListEstimates(ctx context.Context, clientID string) ([]*CostEstimate, error)
	UpdateEstimate(ctx context.Context, estimate *CostEstimate) error
	DeleteEstimate(ctx context.Context, id string) error

	// Audit trail
	CreateAuditLog(ctx context.Context, log *AuditLog) error
	ListAuditLogs(ctx context.Context, filter AuditLogFilter) ([]*AuditLog, int64, error)

	// Analytics aggregates
	CountClients(ctx context.Context) (int64, error)
	CountActiveAdmins(ctx context.Context) (int64, error)
	CountDocumentsByStatuses(ctx context.Context, statuses []string) (int64, error)
	CountClientsByPaymentStatuses(ctx context.Context, statuses []string) (int64, error)
	CountClientsByStatuses(ctx context.Context, statuses []string) (int64, error)
	SumPayments(ctx context.Context) (float64, error)
	MonthlyRevenueSince(ctx context.Context, since time.Time) ([]MonthlyRevenue, error)
	ClientCountsByStatus(ctx context.Context) ([]StatusCount, error)
	AdminWorkloads(ctx context.Context) ([]AdminWorkload, error)
}
