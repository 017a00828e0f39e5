package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
	"github.com/callscribe-team/callscribe/pkg/ai"
	"github.com/callscribe-team/callscribe/pkg/config"
)

const testSecret = "webhook-secret"

type fakeDispatcher struct {
	events []*entities.BotEvent
	err    error
}

func (f *fakeDispatcher) HandleEvent(ctx context.Context, event *entities.BotEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func newWebhookFixture() (*fakeDispatcher, *Webhook) {
	cfg := &config.Config{}
	cfg.Server.Environment = "production"
	cfg.Provider.WebhookSecret = testSecret

	dispatcher := &fakeDispatcher{}
	return dispatcher, NewWebhook(cfg, dispatcher, nil)
}

func deliver(h *Webhook, body, signature string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/provider", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	_ = h.Handle(e.NewContext(req, rec))
	return rec
}

func signedBody(event, botID, environment string) (string, string) {
	body := fmt.Sprintf(
		`{"event":%q,"data":{"bot":{"id":%q,"metadata":{"environment":%q}},"data":{"code":"ok"}}}`,
		event, botID, environment,
	)
	return body, ai.SignHMAC(testSecret, []byte(body))
}

func TestHandleDispatchesVerifiedEvent(t *testing.T) {
	dispatcher, h := newWebhookFixture()
	body, sig := signedBody("done", "bot_123", "production")

	rec := deliver(h, body, sig)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, entities.BotEventDone, dispatcher.events[0].Type)
	assert.Equal(t, "bot_123", dispatcher.events[0].BotID)
}

func TestHandleRejectsBadSignature(t *testing.T) {
	dispatcher, h := newWebhookFixture()
	body, _ := signedBody("done", "bot_123", "production")

	rec := deliver(h, body, "sha256=deadbeef")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, dispatcher.events)
}

func TestHandleRejectsMissingSignature(t *testing.T) {
	dispatcher, h := newWebhookFixture()
	body, _ := signedBody("done", "bot_123", "production")

	rec := deliver(h, body, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, dispatcher.events)
}

func TestHandleAcksForeignEnvironmentWithoutDispatch(t *testing.T) {
	dispatcher, h := newWebhookFixture()
	body, sig := signedBody("done", "bot_123", "staging")

	rec := deliver(h, body, sig)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())
	assert.Empty(t, dispatcher.events)
}

func TestHandleEmptyEnvironmentMatchesAny(t *testing.T) {
	dispatcher, h := newWebhookFixture()
	body, sig := signedBody("in_call_recording", "bot_123", "")

	rec := deliver(h, body, sig)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, entities.BotEventInCallRecording, dispatcher.events[0].Type)
}

func TestHandleRejectsUnknownEvent(t *testing.T) {
	dispatcher, h := newWebhookFixture()
	body, sig := signedBody("bot_exploded", "bot_123", "production")

	rec := deliver(h, body, sig)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, dispatcher.events)
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	dispatcher, h := newWebhookFixture()
	body := `{"event": "done", "data": `
	sig := ai.SignHMAC(testSecret, []byte(body))

	rec := deliver(h, body, sig)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, dispatcher.events)
}

func TestHandleRejectsMissingBotID(t *testing.T) {
	_, h := newWebhookFixture()
	body := `{"event":"done","data":{"bot":{"id":""},"data":{}}}`
	sig := ai.SignHMAC(testSecret, []byte(body))

	rec := deliver(h, body, sig)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAcksEvenWhenDispatchFails(t *testing.T) {
	dispatcher, h := newWebhookFixture()
	dispatcher.err = fmt.Errorf("pipeline blew up")
	body, sig := signedBody("done", "bot_123", "production")

	rec := deliver(h, body, sig)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())
}
