package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
	pkgvalidator "github.com/callscribe-team/callscribe/pkg/validator"
)

type fakeMeetingRepo struct {
	meeting *entities.Meeting
}

func (f *fakeMeetingRepo) Create(ctx context.Context, meeting *entities.Meeting) error { return nil }

func (f *fakeMeetingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	if f.meeting == nil || f.meeting.ID != id {
		return nil, nil
	}
	return f.meeting, nil
}

func (f *fakeMeetingRepo) FindByBotID(ctx context.Context, botID string) (*entities.Meeting, error) {
	return f.meeting, nil
}

func (f *fakeMeetingRepo) Update(ctx context.Context, meeting *entities.Meeting) error { return nil }

func (f *fakeMeetingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	return nil
}

func (f *fakeMeetingRepo) UpdateProviderState(ctx context.Context, botID string, state string) error {
	return nil
}

func (f *fakeMeetingRepo) UpdateSegments(ctx context.Context, id uuid.UUID, segments []entities.Segment, rawURL string) error {
	return nil
}

type fakePipelineRunner struct {
	calls          int
	botID          string
	eventTimestamp int64
}

func (f *fakePipelineRunner) Run(ctx context.Context, botID string, eventTimestamp int64) error {
	f.calls++
	f.botID = botID
	f.eventTimestamp = eventTimestamp
	return nil
}

func newMeetingFixture() (*fakeMeetingRepo, *fakePipelineRunner, *Meeting, *echo.Echo) {
	repo := &fakeMeetingRepo{
		meeting: entities.NewMeeting(uuid.New(), "bot_123", "sheet-abc", []string{"Client"}),
	}
	runner := &fakePipelineRunner{}
	e := echo.New()
	e.Validator = pkgvalidator.New()
	return repo, runner, NewMeeting(repo, runner, nil), e
}

func doGet(e *echo.Echo, h *Meeting, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/meetings/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	_ = h.Get(c)
	return rec
}

func doReprocess(e *echo.Echo, h *Meeting, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/meetings/:id/reprocess")
	c.SetParamNames("id")
	c.SetParamValues(id)
	_ = h.Reprocess(c)
	return rec
}

func TestGetReturnsMeeting(t *testing.T) {
	repo, _, h, e := newMeetingFixture()

	rec := doGet(e, h, repo.meeting.ID.String())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bot_123")
}

func TestGetUnknownMeetingIs404(t *testing.T) {
	_, _, h, e := newMeetingFixture()

	rec := doGet(e, h, uuid.NewString())

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRejectsInvalidID(t *testing.T) {
	_, _, h, e := newMeetingFixture()

	rec := doGet(e, h, "not-a-uuid")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReprocessRunsPipeline(t *testing.T) {
	repo, runner, h, e := newMeetingFixture()

	rec := doReprocess(e, h, repo.meeting.ID.String(), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, runner.calls)
	assert.Equal(t, "bot_123", runner.botID)
	assert.Greater(t, runner.eventTimestamp, int64(0))
}

func TestReprocessReplaysProvidedTimestamp(t *testing.T) {
	repo, runner, h, e := newMeetingFixture()

	rec := doReprocess(e, h, repo.meeting.ID.String(), `{"event_timestamp": 1700000000000}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, runner.calls)
	assert.Equal(t, int64(1700000000000), runner.eventTimestamp)
}

func TestReprocessRejectsInvalidTimestamp(t *testing.T) {
	repo, runner, h, e := newMeetingFixture()

	rec := doReprocess(e, h, repo.meeting.ID.String(), `{"event_timestamp": -5}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, runner.calls)
}

func TestReprocessUnknownMeetingIs404(t *testing.T) {
	_, runner, h, e := newMeetingFixture()

	rec := doReprocess(e, h, uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, runner.calls)
}
