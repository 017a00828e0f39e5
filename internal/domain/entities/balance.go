package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserBalance is the user's remaining prepaid processing time. Deduction is
// a single conditional update that must never take the balance negative.
type UserBalance struct {
	UserID           uuid.UUID `json:"user_id" gorm:"type:uuid;primary_key"`
	RemainingMinutes int64     `json:"remaining_minutes" gorm:"not null;default:0"`
	Eligible         bool      `json:"eligible" gorm:"not null;default:true"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (UserBalance) TableName() string {
	return "user_balances"
}

// CanDeduct reports whether the balance covers the given minutes
func (b *UserBalance) CanDeduct(minutes int64) bool {
	return b.Eligible && b.RemainingMinutes >= minutes
}
