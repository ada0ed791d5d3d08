package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense represents a club expenditure. Expenses are standalone: they have
// no owner and no status machine.
type Expense struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Type      string          `json:"type" gorm:"size:255;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Date      time.Time       `json:"date" gorm:"not null;index"`
	Note      string          `json:"note,omitempty" gorm:"type:text"`
	ProofURL  string          `json:"proofUrl,omitempty" gorm:"size:512"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
