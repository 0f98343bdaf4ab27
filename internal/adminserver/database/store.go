package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/taxhub/admin-backend/internal/common/cnst"
	"github.com/taxhub/admin-backend/internal/common/config"
)

// Store implements the Database interface on top of gorm
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore opens the configured database, runs migrations and returns a Store
func NewStore(cfg *config.DatabaseConfig, logger *zap.Logger) (Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := gormDB.AutoMigrate(
		&AdminUser{},
		&Client{},
		&Document{},
		&Payment{},
		&Note{},
		&CostEstimate{},
		&AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: gormDB, logger: logger.Named("database")}, nil
}

// Close closes the underlying connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn inside one gorm transaction carried via the context
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if TransactionFromContext(ctx) != nil {
		// Already inside a transaction, just join it.
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ContextWithTransaction(ctx, tx))
	})
}

// conn returns the transaction from the context when present, otherwise the
// base connection scoped to the context.
func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx := TransactionFromContext(ctx); tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cnst.ErrNotFound
	}
	return err
}

// --- admin users ---

func (s *Store) CreateAdmin(ctx context.Context, admin *AdminUser) error {
	return s.conn(ctx).Create(admin).Error
}

func (s *Store) GetAdminByID(ctx context.Context, id string) (*AdminUser, error) {
	var admin AdminUser
	if err := s.conn(ctx).First(&admin, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &admin, nil
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*AdminUser, error) {
	var admin AdminUser
	if err := s.conn(ctx).First(&admin, "email = ?", strings.ToLower(email)).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &admin, nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]*AdminUser, error) {
	var admins []*AdminUser
	err := s.conn(ctx).Order("created_at desc").Find(&admins).Error
	return admins, err
}

func (s *Store) UpdateAdmin(ctx context.Context, admin *AdminUser) error {
	return s.conn(ctx).Save(admin).Error
}

// DeleteAdmin removes an admin account. Clients assigned to the admin keep a
// nulled reference; payments, notes and audit entries keep a dangling one.
func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		if err := s.conn(ctx).Model(&Client{}).
			Where("assigned_admin_id = ?", id).
			Update("assigned_admin_id", nil).Error; err != nil {
			return err
		}
		return s.conn(ctx).Delete(&AdminUser{}, "id = ?", id).Error
	})
}

func (s *Store) CountAssignedClients(ctx context.Context, adminID string) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&Client{}).Where("assigned_admin_id = ?", adminID).Count(&count).Error
	return count, err
}

// --- clients ---

func (s *Store) CreateClient(ctx context.Context, client *Client) error {
	return s.conn(ctx).Create(client).Error
}

func (s *Store) GetClientByID(ctx context.Context, id string) (*Client, error) {
	var client Client
	if err := s.conn(ctx).First(&client, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &client, nil
}

func (s *Store) GetClientByEmail(ctx context.Context, email string) (*Client, error) {
	var client Client
	if err := s.conn(ctx).First(&client, "email = ?", strings.ToLower(email)).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &client, nil
}

func (s *Store) GetClientByEmailYear(ctx context.Context, email string, year int) (*Client, error) {
	var client Client
	err := s.conn(ctx).
		First(&client, "email = ? AND filing_year = ?", strings.ToLower(email), year).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &client, nil
}

func clientFilterQuery(db *gorm.DB, filter ClientFilter) *gorm.DB {
	q := db.Model(&Client{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Year != 0 {
		q = q.Where("filing_year = ?", filter.Year)
	}
	if filter.Email != "" {
		q = q.Where("email = ?", strings.ToLower(filter.Email))
	} else if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	return q
}

func (s *Store) ListClients(ctx context.Context, filter ClientFilter) ([]*Client, int64, error) {
	var total int64
	if err := clientFilterQuery(s.conn(ctx), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clients []*Client
	q := clientFilterQuery(s.conn(ctx), filter).Order("created_at desc")
	if filter.PageSize > 0 {
		q = q.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := q.Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (s *Store) UpdateClient(ctx context.Context, client *Client) error {
	return s.conn(ctx).Save(client).Error
}

// DeleteClient removes a client together with its owned documents, payments,
// notes and cost estimates.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		for _, owned := range []interface{}{&Document{}, &Payment{}, &Note{}, &CostEstimate{}} {
			if err := s.conn(ctx).Delete(owned, "client_id = ?", id).Error; err != nil {
				return err
			}
		}
		return s.conn(ctx).Delete(&Client{}, "id = ?", id).Error
	})
}

// --- documents ---

func (s *Store) CreateDocument(ctx context.Context, doc *Document) error {
	return s.conn(ctx).Create(doc).Error
}

func (s *Store) GetDocumentByID(ctx context.Context, id string) (*Document, error) {
	var doc Document
	if err := s.conn(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &doc, nil
}

func documentFilterQuery(db *gorm.DB, filter DocumentFilter) *gorm.DB {
	q := db.Model(&Document{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	return q
}

func (s *Store) ListDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, int64, error) {
	var total int64
	if err := documentFilterQuery(s.conn(ctx), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var docs []*Document
	err := documentFilterQuery(s.conn(ctx), filter).Order("created_at desc").Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func (s *Store) UpdateDocument(ctx context.Context, doc *Document) error {
	return s.conn(ctx).Save(doc).Error
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	return s.conn(ctx).Delete(&Document{}, "id = ?", id).Error
}

// --- payments ---

func (s *Store) CreatePayment(ctx context.Context, payment *Payment) error {
	return s.conn(ctx).Create(payment).Error
}

func (s *Store) GetPaymentByID(ctx context.Context, id string) (*Payment, error) {
	var payment Payment
	if err := s.conn(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &payment, nil
}

func (s *Store) ListPayments(ctx context.Context, clientID string) ([]*Payment, error) {
	var payments []*Payment
	q := s.conn(ctx).Order("created_at desc")
	if clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	err := q.Find(&payments).Error
	return payments, err
}

func (s *Store) UpdatePayment(ctx context.Context, payment *Payment) error {
	return s.conn(ctx).Save(payment).Error
}

func (s *Store) DeletePayment(ctx context.Context, id string) error {
	return s.conn(ctx).Delete(&Payment{}, "id = ?", id).Error
}

// --- notes ---

func (s *Store) CreateNote(ctx context.Context, note *Note) error {
	return s.conn(ctx).Create(note).Error
}

func (s *Store) GetNoteByID(ctx context.Context, id string) (*Note, error) {
	var note Note
	if err := s.conn(ctx).First(&note, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &note, nil
}

func (s *Store) ListNotes(ctx context.Context, clientID string) ([]*Note, error) {
	var notes []*Note
	err := s.conn(ctx).Where("client_id = ?", clientID).Order("created_at desc").Find(&notes).Error
	return notes, err
}

func (s *Store) DeleteNote(ctx context.Context, id string) error {
	return s.conn(ctx).Delete(&Note{}, "id = ?", id).Error
}

// --- cost estimates ---

func (s *Store) CreateEstimate(ctx context.Context, estimate *CostEstimate) error {
	return s.conn(ctx).Create(estimate).Error
}

func (s *Store) GetEstimateByID(ctx context.Context, id string) (*CostEstimate, error) {
	var estimate CostEstimate
	if err := s.conn(ctx).First(&estimate, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &estimate, nil
}

func (s *Store) ListEstimates(ctx context.Context, clientID string) ([]*CostEstimate, error) {
	var estimates []*CostEstimate
	err := s.conn(ctx).Where("client_id = ?", clientID).Order("created_at desc").Find(&estimates).Error
	return estimates, err
}

func (s *Store) UpdateEstimate(ctx context.Context, estimate *CostEstimate) error {
	return s.conn(ctx).Save(estimate).Error
}

func (s *Store) DeleteEstimate(ctx context.Context, id string) error {
	return s.conn(ctx).Delete(&CostEstimate{}, "id = ?", id).Error
}

// --- audit trail ---

func (s *Store) CreateAuditLog(ctx context.Context, log *AuditLog) error {
	return s.conn(ctx).Create(log).Error
}

func auditLogFilterQuery(db *gorm.DB, filter AuditLogFilter) *gorm.DB {
	// Legacy rows with missing required fields are never surfaced.
	q := db.Model(&AuditLog{}).
		Where("entity_type <> ''").
		Where("entity_id <> ''").
		Where("performed_by_id <> ''")
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.Action != "" {
		q = q.Where("LOWER(action) LIKE ?", "%"+strings.ToLower(filter.Action)+"%")
	}
	return q
}

func (s *Store) ListAuditLogs(ctx context.Context, filter AuditLogFilter) ([]*AuditLog, int64, error) {
	var total int64
	if err := auditLogFilterQuery(s.conn(ctx), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*AuditLog
	q := auditLogFilterQuery(s.conn(ctx), filter).Order("timestamp desc")
	if filter.PageSize > 0 {
		q = q.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// --- analytics aggregates ---

func (s *Store) CountClients(ctx context.Context) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&Client{}).Count(&count).Error
	return count, err
}

func (s *Store) CountActiveAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&AdminUser{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (s *Store) CountDocumentsByStatuses(ctx context.Context, statuses []string) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&Document{}).Where("status IN ?", statuses).Count(&count).Error
	return count, err
}

func (s *Store) CountClientsByPaymentStatuses(ctx context.Context, statuses []string) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&Client{}).Where("payment_status IN ?", statuses).Count(&count).Error
	return count, err
}

func (s *Store) CountClientsByStatuses(ctx context.Context, statuses []string) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&Client{}).Where("status IN ?", statuses).Count(&count).Error
	return count, err
}

func (s *Store) SumPayments(ctx context.Context) (float64, error) {
	var total *float64
	err := s.conn(ctx).Model(&Payment{}).Select("SUM(amount)").Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

// MonthlyRevenueSince sums payments per calendar month. Month bucketing is
// done in Go so the query stays portable across sqlite, mysql and postgres.
func (s *Store) MonthlyRevenueSince(ctx context.Context, since time.Time) ([]MonthlyRevenue, error) {
	var payments []*Payment
	err := s.conn(ctx).
		Where("created_at >= ?", since).
		Order("created_at asc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	byMonth := make(map[time.Time]float64)
	var months []time.Time
	for _, p := range payments {
		month := time.Date(p.CreatedAt.Year(), p.CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		if _, seen := byMonth[month]; !seen {
			months = append(months, month)
		}
		byMonth[month] += p.Amount
	}

	out := make([]MonthlyRevenue, 0, len(months))
	for _, month := range months {
		out = append(out, MonthlyRevenue{Month: month, Revenue: byMonth[month]})
	}
	return out, nil
}

func (s *Store) ClientCountsByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := s.conn(ctx).Model(&Client{}).
		Select("status, COUNT(id) AS count").
		Group("status").
		Scan(&counts).Error
	return counts, err
}

// AdminWorkloads returns assigned-client counts per active admin, including
// admins with no assigned clients.
func (s *Store) AdminWorkloads(ctx context.Context) ([]AdminWorkload, error) {
	var workloads []AdminWorkload
	err := s.conn(ctx).Model(&AdminUser{}).
		Select("admin_users.id AS admin_id, admin_users.name AS name, COUNT(clients.id) AS clients").
		Joins("LEFT JOIN clients ON clients.assigned_admin_id = admin_users.id").
		Where("admin_users.is_active = ?", true).
		Group("admin_users.id").
		Group("admin_users.name").
		Scan(&workloads).Error
	return workloads, err
}
