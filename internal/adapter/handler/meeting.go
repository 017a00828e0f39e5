package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/callscribe-team/callscribe/errors"
	"github.com/callscribe-team/callscribe/internal/domain/repositories"
)

// PipelineRunner re-invokes the completion pipeline for a bot, the same
// entry point the webhook's done event uses
type PipelineRunner interface {
	Run(ctx context.Context, botID string, eventTimestamp int64) error
}

// reprocessRequest is the optional reprocess body. A caller replaying a
// specific delivery can carry its original event timestamp through to the
// process record; omitted, the current time is used.
type reprocessRequest struct {
	EventTimestamp int64 `json:"event_timestamp" validate:"omitempty,gt=0"`
}

// Meeting exposes read and reprocess endpoints for meetings
type Meeting struct {
	meetings repositories.MeetingRepository
	pipeline PipelineRunner
	logger   *zap.Logger
}

// NewMeeting creates the meeting handler
func NewMeeting(meetings repositories.MeetingRepository, pipeline PipelineRunner, logger *zap.Logger) *Meeting {
	return &Meeting{
		meetings: meetings,
		pipeline: pipeline,
		logger:   logger,
	}
}

// Get returns one meeting by id
// @Summary Get meeting
// @Tags meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} success
// @Failure 404 {object} errs
// @Router /v1/meetings/{id} [get]
func (h *Meeting) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	meeting, err := h.meetings.FindByID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if meeting == nil {
		return HandleError(h.logger, c, errors.ErrNotFound("meeting"))
	}

	return HandleSuccess(h.logger, c, meeting)
}

// Reprocess re-runs the completion pipeline for a meeting, bypassing the
// webhook layer. The idempotency gate still applies: a meeting whose process
// record exists is skipped the same way a duplicate delivery would be.
// @Summary Reprocess meeting
// @Tags meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} success
// @Failure 404 {object} errs
// @Router /v1/meetings/{id}/reprocess [post]
func (h *Meeting) Reprocess(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	var req reprocessRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid reprocess request"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	meeting, err := h.meetings.FindByID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if meeting == nil {
		return HandleError(h.logger, c, errors.ErrNotFound("meeting"))
	}

	if h.logger != nil {
		h.logger.Info("🔄 Manual reprocess requested",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("bot_id", meeting.BotID),
		)
	}

	occurredAt := req.EventTimestamp
	if occurredAt == 0 {
		occurredAt = time.Now().UnixMilli()
	}

	if err := h.pipeline.Run(c.Request().Context(), meeting.BotID, occurredAt); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]string{
		"meeting_id": meeting.ID.String(),
		"bot_id":     meeting.BotID,
	})
}
