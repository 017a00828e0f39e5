package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

// MeetingRepository handles meeting data operations
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create creates a new meeting
func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).Create(meeting).Error
}

// FindByID retrieves a meeting by ID
func (r *MeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// FindByBotID retrieves a meeting by the provider bot id
func (r *MeetingRepository) FindByBotID(ctx context.Context, botID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("bot_id = ?", botID).
		First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// Update updates a meeting
func (r *MeetingRepository) Update(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).Save(meeting).Error
}

// UpdateStatus updates meeting status
func (r *MeetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdateProviderState records the raw provider lifecycle sub-state for the UI
func (r *MeetingRepository) UpdateProviderState(ctx context.Context, botID string, state string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("bot_id = ?", botID).
		Update("provider_state", state).Error
}

// UpdateSegments persists the normalized transcript as a durability
// checkpoint before the analysis phase
func (r *MeetingRepository) UpdateSegments(ctx context.Context, id uuid.UUID, segments []entities.Segment, rawURL string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(entities.Meeting{
			Segments:         segments,
			RawTranscriptURL: rawURL,
		}).Error
}
