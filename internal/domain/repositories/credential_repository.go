package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

// CredentialRepository stores per-user spreadsheet OAuth credentials.
type CredentialRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entities.SheetCredential, error)
	Save(ctx context.Context, cred *entities.SheetCredential) error
}
