package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Role values for User.Role.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User represents a club account. CreatedAt doubles as the join date for
// dues eligibility.
type User struct {
	ID           uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string          `json:"name" gorm:"size:255;not null"`
	Username     string          `json:"username" gorm:"uniqueIndex;size:64;not null"`
	Email        *string         `json:"email,omitempty" gorm:"uniqueIndex;size:255"`
	PasswordHash string          `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string          `json:"role" gorm:"size:20;not null;default:'member';index"`
	FixedAmount  decimal.Decimal `json:"fixedAmount" gorm:"type:decimal(20,2);not null;default:0"`
	AvatarURL    string          `json:"avatarUrl,omitempty" gorm:"size:512"`
	IsBlocked    bool            `json:"isBlocked" gorm:"default:false;index"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`

	// Relations
	Payments []Payment `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Summary is the member projection returned by login and /auth/me.
type Summary struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Role        string          `json:"role"`
	FixedAmount decimal.Decimal `json:"fixedAmount"`
	AvatarURL   string          `json:"avatarUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Summarize projects the user into its public member summary.
func (u *User) Summarize() Summary {
	return Summary{
		ID:          u.ID,
		Name:        u.Name,
		Role:        u.Role,
		FixedAmount: u.FixedAmount,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
}
