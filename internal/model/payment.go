package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus represents the status of a monthly dues payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

var monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidMonth reports whether s is a YYYY-MM month token.
func ValidMonth(s string) bool {
	return monthRe.MatchString(s)
}

// MonthOf returns the YYYY-MM token for t. Tokens compare lexicographically,
// which orders correctly across years because of zero padding.
func MonthOf(t time.Time) string {
	return t.Format("2006-01")
}

// Payment represents one member's dues for one calendar month. The composite
// unique index makes (user, month) the upsert key: a resubmission overwrites
// the existing row instead of creating a second one.
type Payment struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID       `json:"userId" gorm:"type:char(36);not null;uniqueIndex:idx_payments_user_month"`
	Month     string          `json:"month" gorm:"size:7;not null;uniqueIndex:idx_payments_user_month;index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Status    PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ProofURL  string          `json:"proofUrl,omitempty" gorm:"size:512"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
