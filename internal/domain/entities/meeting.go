package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingStatus represents the processing status of a meeting
type MeetingStatus string

const (
	MeetingStatusCreated    MeetingStatus = "created"
	MeetingStatusInProgress MeetingStatus = "in-progress"
	MeetingStatusProcessing MeetingStatus = "processing"
	MeetingStatusCompleted  MeetingStatus = "completed"
	MeetingStatusFailed     MeetingStatus = "failed"
)

// MeetingMetrics holds metrics computed by the completion pipeline
type MeetingMetrics struct {
	DurationSeconds      int                `json:"duration_seconds,omitempty"`
	FieldsAnalyzed       int                `json:"fields_analyzed,omitempty"`
	SuccessRate          float64            `json:"success_rate,omitempty"`
	SpeakerParticipation map[string]float64 `json:"speaker_participation,omitempty"`
	TopicDistribution    map[string]float64 `json:"topic_distribution,omitempty"`
	ProcessingDurationMs int64              `json:"processing_duration_ms,omitempty"`
}

// Highlight is a timestamped notable moment in the meeting
type Highlight struct {
	Timestamp float64 `json:"timestamp"`
	Text      string  `json:"text"`
}

// Meeting is one unit of recorded-and-analyzed work. The provider-side
// bot id is the join key for all webhook correlation.
type Meeting struct {
	ID     uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	BotID  string        `json:"bot_id" gorm:"type:varchar(255);not null;uniqueIndex"`
	Status MeetingStatus `json:"status" gorm:"type:varchar(20);not null;default:'created';index"`

	// Raw provider lifecycle sub-state, surfaced for the UI only
	ProviderState string `json:"provider_state,omitempty" gorm:"type:varchar(50)"`

	// Content
	RawTranscriptURL string              `json:"raw_transcript_url,omitempty" gorm:"type:text"`
	Segments         []Segment           `json:"segments,omitempty" gorm:"type:jsonb;serializer:json"`
	ExtractedFields  map[string]string   `json:"extracted_fields,omitempty" gorm:"type:jsonb;serializer:json"`
	Summary          string              `json:"summary,omitempty" gorm:"type:text"`
	KeyPoints        []string            `json:"key_points,omitempty" gorm:"type:jsonb;serializer:json"`
	ActionItems      []string            `json:"action_items,omitempty" gorm:"type:jsonb;serializer:json"`
	Highlights       []Highlight         `json:"highlights,omitempty" gorm:"type:jsonb;serializer:json"`
	Metrics          MeetingMetrics      `json:"metrics,omitempty" gorm:"type:jsonb;serializer:json"`
	RawData          datatypes.JSON      `json:"raw_data,omitempty" gorm:"type:jsonb;default:'{}'"`

	// Spreadsheet export target
	SpreadsheetID        string   `json:"spreadsheet_id" gorm:"type:varchar(255);not null"`
	SheetName            *string  `json:"sheet_name,omitempty" gorm:"type:varchar(255)"`
	SpreadsheetRowNumber *int64   `json:"spreadsheet_row_number,omitempty"`
	Headers              []string `json:"headers,omitempty" gorm:"type:jsonb;serializer:json"`
	CustomInstructions   string   `json:"custom_instructions,omitempty" gorm:"type:text"`

	ProcessingError *string   `json:"processing_error,omitempty" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a new meeting for a dispatched bot
func NewMeeting(userID uuid.UUID, botID, spreadsheetID string, headers []string) *Meeting {
	return &Meeting{
		ID:            uuid.New(),
		UserID:        userID,
		BotID:         botID,
		Status:        MeetingStatusCreated,
		SpreadsheetID: spreadsheetID,
		Headers:       headers,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// IsCompleted checks if the meeting finished processing
func (m *Meeting) IsCompleted() bool {
	return m.Status == MeetingStatusCompleted
}

// MarkAsInProgress marks the meeting as actively being recorded
func (m *Meeting) MarkAsInProgress() {
	m.Status = MeetingStatusInProgress
	m.UpdatedAt = time.Now()
}

// MarkAsProcessing marks the meeting as entering the completion pipeline
func (m *Meeting) MarkAsProcessing() {
	m.Status = MeetingStatusProcessing
	m.UpdatedAt = time.Now()
}

// MarkAsCompleted marks the meeting as fully processed and exported
func (m *Meeting) MarkAsCompleted() {
	m.Status = MeetingStatusCompleted
	m.ProcessingError = nil
	m.UpdatedAt = time.Now()
}

// MarkAsFailed marks the meeting as failed with an error message
func (m *Meeting) MarkAsFailed(errMsg string) {
	m.Status = MeetingStatusFailed
	m.ProcessingError = &errMsg
	m.UpdatedAt = time.Now()
}
