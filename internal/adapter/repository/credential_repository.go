package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

// CredentialRepository handles stored spreadsheet OAuth credentials
type CredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// FindByUserID retrieves the credential for a user
func (r *CredentialRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entities.SheetCredential, error) {
	var cred entities.SheetCredential
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

// Save persists a credential (insert or update)
func (r *CredentialRepository) Save(ctx context.Context, cred *entities.SheetCredential) error {
	if cred == nil {
		return errors.New("credential cannot be nil")
	}
	return r.db.WithContext(ctx).Save(cred).Error
}
