package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taxhub/admin-backend/internal/common/cnst"
)

// PermissionList is an admin's capability grants, stored as a JSON array
type PermissionList []cnst.Permission

// Value implements driver.Valuer
func (p PermissionList) Value() (driver.Value, error) {
	if p == nil {
		p = PermissionList{}
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner
func (p *PermissionList) Scan(value interface{}) error {
	if value == nil {
		*p = PermissionList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported permissions column type %T", value)
	}
}

// Has reports whether the list contains the given permission
func (p PermissionList) Has(perm cnst.Permission) bool {
	for _, v := range p {
		if v == perm {
			return true
		}
	}
	return false
}

// AdminUser represents a back-office admin account
type AdminUser struct {
	ID           string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string         `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string         `json:"name" gorm:"type:varchar(255);not null"`
	PasswordHash string         `json:"-" gorm:"type:varchar(255);not null"`
	Role         cnst.AdminRole `json:"role" gorm:"type:varchar(20);not null;default:'admin'"`
	Permissions  PermissionList `json:"permissions" gorm:"type:text;not null"`
	Avatar       string         `json:"avatar,omitempty" gorm:"type:varchar(500)"`
	IsActive     bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
}

func (a *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Client represents a tax-filing client record
type Client struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name            string    `json:"name" gorm:"type:varchar(255);not null;index"`
	Email           string    `json:"email" gorm:"type:varchar(255);not null;index:idx_clients_email_year,unique"`
	Phone           string    `json:"phone,omitempty" gorm:"type:varchar(20)"`
	FilingYear      int       `json:"filing_year" gorm:"not null;index:idx_clients_email_year,unique"`
	Status          string    `json:"status" gorm:"type:varchar(50);not null;default:'documents_pending';index"`
	PaymentStatus   string    `json:"payment_status" gorm:"type:varchar(20);not null;default:'pending';index"`
	AssignedAdminID *string   `json:"assigned_admin_id,omitempty" gorm:"type:varchar(36);index"`
	TotalAmount     float64   `json:"total_amount" gorm:"not null;default:0"`
	PaidAmount      float64   `json:"paid_amount" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Document represents document metadata tracked for a client
type Document struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ClientID   string     `json:"client_id" gorm:"type:varchar(36);not null;index"`
	Name       string     `json:"name" gorm:"type:varchar(255);not null"`
	Type       string     `json:"type" gorm:"type:varchar(100);not null"`
	Status     string     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Version    int        `json:"version" gorm:"not null;default:1"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
	Notes      string     `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// Payment represents one payment made by a client
type Payment struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ClientID    string    `json:"client_id" gorm:"type:varchar(36);not null;index"`
	Amount      float64   `json:"amount" gorm:"not null"`
	Method      string    `json:"method" gorm:"type:varchar(50);not null"`
	Note        string    `json:"note,omitempty" gorm:"type:text"`
	CreatedByID string    `json:"created_by_id" gorm:"type:varchar(36);not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Note represents an internal or client-facing note on a client
type Note struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ClientID       string    `json:"client_id" gorm:"type:varchar(36);not null;index"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	IsClientFacing bool      `json:"is_client_facing" gorm:"not null;default:false"`
	AuthorID       string    `json:"author_id" gorm:"type:varchar(36);not null"`
	CreatedAt      time.Time `json:"created_at"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// CostEstimate represents a cost estimate issued to a client
type CostEstimate struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ClientID    string    `json:"client_id" gorm:"type:varchar(36);not null;index"`
	ServiceCost float64   `json:"service_cost" gorm:"not null"`
	Discount    float64   `json:"discount" gorm:"not null;default:0"`
	GstHst      float64   `json:"gst_hst" gorm:"not null"`
	Total       float64   `json:"total" gorm:"not null"`
	Status      string    `json:"status" gorm:"type:varchar(50);not null;default:'draft';index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e *CostEstimate) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// AuditLog is an append-only record of a mutating action.
// Rows are never updated or deleted by application logic.
type AuditLog struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Action        string    `json:"action" gorm:"type:varchar(100);not null;index"`
	EntityType    string    `json:"entity_type" gorm:"type:varchar(50);index"`
	EntityID      string    `json:"entity_id" gorm:"type:varchar(100);index"`
	OldValue      string    `json:"old_value,omitempty" gorm:"type:text"`
	NewValue      string    `json:"new_value,omitempty" gorm:"type:text"`
	PerformedByID string    `json:"performed_by_id" gorm:"type:varchar(36);index"`
	Timestamp     time.Time `json:"timestamp" gorm:"index"`
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	return nil
}
