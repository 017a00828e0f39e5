package processing

import (
	"context"

	"go.uber.org/zap"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
	"github.com/callscribe-team/callscribe/internal/domain/repositories"
)

// Runner is the pipeline entry point the state machine dispatches the
// terminal event to. *Pipeline satisfies this.
type Runner interface {
	Run(ctx context.Context, botID string, eventTimestamp int64) error
}

// Service is the bot lifecycle state machine. It keeps no state of its own;
// each inbound event is dispatched onto the Meeting status and, for the
// terminal event, into the completion pipeline.
type Service struct {
	meetings repositories.MeetingRepository
	pipeline Runner
	logger   *zap.Logger
}

// NewService constructs the lifecycle service
func NewService(meetings repositories.MeetingRepository, pipeline Runner, logger *zap.Logger) *Service {
	return &Service{
		meetings: meetings,
		pipeline: pipeline,
		logger:   logger,
	}
}

// HandleEvent routes one provider lifecycle event. Events for unknown bots
// are logged and dropped rather than failed: the provider fans deliveries
// out to every integration and not every bot is ours.
func (s *Service) HandleEvent(ctx context.Context, event *entities.BotEvent) error {
	if s.logger != nil {
		s.logger.Info("📥 Bot lifecycle event",
			zap.String("bot_id", event.BotID),
			zap.String("event", string(event.Type)),
		)
	}

	switch event.Type {
	case entities.BotEventInCallRecording:
		return s.markRecording(ctx, event)

	case entities.BotEventDone:
		return s.pipeline.Run(ctx, event.BotID, event.OccurredAt)

	case entities.BotEventFatal:
		return s.markFatal(ctx, event)

	default:
		// Informational states carry no pipeline obligation; persist the
		// raw sub-state for the UI
		return s.meetings.UpdateProviderState(ctx, event.BotID, string(event.Type))
	}
}

func (s *Service) markRecording(ctx context.Context, event *entities.BotEvent) error {
	meeting, err := s.meetings.FindByBotID(ctx, event.BotID)
	if err != nil {
		return err
	}
	if meeting == nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Recording event for unknown bot",
				zap.String("bot_id", event.BotID),
			)
		}
		return nil
	}

	meeting.ProviderState = string(event.Type)
	if meeting.Status == entities.MeetingStatusCreated {
		meeting.MarkAsInProgress()
	}
	return s.meetings.Update(ctx, meeting)
}

func (s *Service) markFatal(ctx context.Context, event *entities.BotEvent) error {
	meeting, err := s.meetings.FindByBotID(ctx, event.BotID)
	if err != nil {
		return err
	}
	if meeting == nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Fatal event for unknown bot",
				zap.String("bot_id", event.BotID),
			)
		}
		return nil
	}

	meeting.ProviderState = string(event.Type)
	meeting.MarkAsFailed("provider reported fatal bot error")
	if err := s.meetings.Update(ctx, meeting); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Error("❌ Bot failed before completion",
			zap.String("bot_id", event.BotID),
			zap.String("meeting_id", meeting.ID.String()),
		)
	}
	return nil
}
