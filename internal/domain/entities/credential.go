package entities

import (
	"time"

	"github.com/google/uuid"
)

// SheetCredential is a stored Google OAuth credential used for spreadsheet
// access, one per user. The refresh token survives access-token expiry.
type SheetCredential struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	AccessToken  string    `json:"-" gorm:"type:text;not null"`
	RefreshToken string    `json:"-" gorm:"type:text;not null"`
	TokenType    string    `json:"token_type" gorm:"type:varchar(50);default:'Bearer'"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (SheetCredential) TableName() string {
	return "sheet_credentials"
}

// IsExpired reports whether the access token is expired (with a small skew
// margin so a token about to expire is refreshed proactively)
func (c *SheetCredential) IsExpired() bool {
	return time.Now().After(c.ExpiresAt.Add(-30 * time.Second))
}

// UpdateToken replaces the access token after a refresh
func (c *SheetCredential) UpdateToken(accessToken string, expiresAt time.Time) {
	c.AccessToken = accessToken
	c.ExpiresAt = expiresAt
	c.UpdatedAt = time.Now()
}
