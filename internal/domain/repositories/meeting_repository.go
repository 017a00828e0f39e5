package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

// MeetingRepository defines meeting persistence operations. Updates are
// coarse-grained field replacements; the UI reads the same rows without
// locking.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	FindByBotID(ctx context.Context, botID string) (*entities.Meeting, error)
	Update(ctx context.Context, meeting *entities.Meeting) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error
	UpdateProviderState(ctx context.Context, botID string, state string) error
	UpdateSegments(ctx context.Context, id uuid.UUID, segments []entities.Segment, rawURL string) error
}
