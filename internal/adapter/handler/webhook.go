package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/callscribe-team/callscribe/errors"
	"github.com/callscribe-team/callscribe/internal/domain/entities"
	"github.com/callscribe-team/callscribe/pkg/ai"
	"github.com/callscribe-team/callscribe/pkg/config"
)

// SignatureHeader carries the provider's HMAC-SHA256 hex signature over the
// raw request body
const SignatureHeader = "X-CallScribe-Signature"

// LifecycleDispatcher routes a parsed event through the bot lifecycle state
// machine. usecase/processing.Service satisfies this.
type LifecycleDispatcher interface {
	HandleEvent(ctx context.Context, event *entities.BotEvent) error
}

// webhookPayload is the provider's delivery shape
type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Bot struct {
			ID       string `json:"id"`
			Metadata struct {
				Environment string `json:"environment"`
			} `json:"metadata"`
		} `json:"bot"`
		Data struct {
			Code      string     `json:"code,omitempty"`
			UpdatedAt *time.Time `json:"updated_at,omitempty"`
		} `json:"data"`
	} `json:"data"`
}

// Webhook receives bot lifecycle notifications from the recording provider
type Webhook struct {
	cfg       *config.Config
	lifecycle LifecycleDispatcher
	logger    *zap.Logger
}

// NewWebhook creates the webhook handler
func NewWebhook(cfg *config.Config, lifecycle LifecycleDispatcher, logger *zap.Logger) *Webhook {
	return &Webhook{
		cfg:       cfg,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// Handle processes one provider delivery
// @Summary Provider bot lifecycle webhook
// @Description Verifies the HMAC signature, filters foreign environments, and dispatches the lifecycle event
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errs
// @Router /v1/webhooks/provider [post]
func (h *Webhook) Handle(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	// Never process an unverified payload
	signature := c.Request().Header.Get(SignatureHeader)
	if !ai.VerifyHMAC(h.cfg.Provider.WebhookSecret, body, signature) {
		if h.logger != nil {
			h.logger.Warn("⚠️ Webhook signature verification failed",
				zap.String("request_id", getRequestID(c)),
			)
		}
		return HandleError(h.logger, c, errors.ErrInvalidSignature())
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if payload.Data.Bot.ID == "" {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	eventType, err := entities.ParseBotEventType(payload.Event)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrUnknownEvent(payload.Event))
	}

	// Multi-environment fan-out guard: a tag for another environment is
	// acknowledged and dropped. An empty tag matches any environment.
	envTag := payload.Data.Bot.Metadata.Environment
	if envTag != "" && envTag != h.cfg.Server.Environment {
		if h.logger != nil {
			h.logger.Info("⏭️ Webhook for another environment, acknowledged without action",
				zap.String("bot_id", payload.Data.Bot.ID),
				zap.String("environment", envTag),
			)
		}
		return c.JSON(http.StatusOK, map[string]bool{"received": true})
	}

	occurredAt := time.Now().UnixMilli()
	if payload.Data.Data.UpdatedAt != nil {
		occurredAt = payload.Data.Data.UpdatedAt.UnixMilli()
	}

	event := &entities.BotEvent{
		Type:        eventType,
		BotID:       payload.Data.Bot.ID,
		Environment: envTag,
		OccurredAt:  occurredAt,
	}

	// A verified, environment-matched delivery is always acknowledged
	// positively. Duplicate-side-effect safety lives in the idempotency
	// layer, not in withholding the ack, so a processing failure here must
	// not turn into a 5xx retry storm.
	if err := h.lifecycle.HandleEvent(c.Request().Context(), event); err != nil {
		if h.logger != nil {
			h.logger.Error("❌ Lifecycle event handling failed",
				zap.String("bot_id", event.BotID),
				zap.String("event", string(event.Type)),
				zap.Error(err),
			)
		}
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
