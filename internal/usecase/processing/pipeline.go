package processing

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/datatypes"

	apperrors "github.com/callscribe-team/callscribe/errors"
	"github.com/callscribe-team/callscribe/internal/domain/entities"
	"github.com/callscribe-team/callscribe/internal/domain/repositories"
	"github.com/callscribe-team/callscribe/internal/infrastructure/external/recall"
	"github.com/callscribe-team/callscribe/internal/usecase/analysis"
	"github.com/callscribe-team/callscribe/internal/usecase/transcript"
	"github.com/callscribe-team/callscribe/pkg/config"
	"github.com/callscribe-team/callscribe/pkg/pipelinectx"
)

// ProviderClient is the slice of the bot provider API the pipeline needs
type ProviderClient interface {
	GetBot(ctx context.Context, botID string) (*recall.Bot, error)
	GetTranscript(ctx context.Context, botID string) ([]entities.SpeakerChunk, []byte, error)
}

// Transcriber produces speaker chunks from a recording's audio when the
// provider has no transcript. May be nil when no fallback is configured.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) ([]entities.SpeakerChunk, error)
}

// Archive stores raw transcript payloads durably. May be nil; archival is
// best-effort either way.
type Archive interface {
	StoreRawTranscript(ctx context.Context, botID string, payload []byte) (string, error)
}

// AnalysisRunner fans out the LLM analysis passes over a transcript
type AnalysisRunner interface {
	Analyze(ctx context.Context, segments []entities.Segment, headers []string, instructions string) (*analysis.Result, error)
}

// Exporter writes the extracted fields into the meeting's spreadsheet
type Exporter interface {
	Export(ctx context.Context, accessToken string, meeting *entities.Meeting) (string, int64, error)
}

// TokenRefresher exchanges a refresh token for a fresh access token
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// Pipeline is the completion orchestrator. One run turns a finished
// recording into a normalized transcript, analysis results, a spreadsheet
// row, and a balance charge. Runs are not resumable mid-step: a failed run
// leaves no idempotency record, so the provider's redelivery retries from
// scratch.
type Pipeline struct {
	meetings    repositories.MeetingRepository
	balances    repositories.BalanceRepository
	credentials repositories.CredentialRepository
	store       repositories.ProcessStore
	provider    ProviderClient
	transcriber Transcriber
	archive     Archive
	analysis    AnalysisRunner
	exporter    Exporter
	tokens      TokenRefresher
	cfg         *config.ProcessingConfig
	logger      *zap.Logger
}

// NewPipeline wires the completion pipeline. transcriber and archive may be
// nil; everything else is required.
func NewPipeline(
	meetings repositories.MeetingRepository,
	balances repositories.BalanceRepository,
	credentials repositories.CredentialRepository,
	store repositories.ProcessStore,
	provider ProviderClient,
	transcriber Transcriber,
	archive Archive,
	analysisRunner AnalysisRunner,
	exporter Exporter,
	tokens TokenRefresher,
	cfg *config.ProcessingConfig,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		meetings:    meetings,
		balances:    balances,
		credentials: credentials,
		store:       store,
		provider:    provider,
		transcriber: transcriber,
		archive:     archive,
		analysis:    analysisRunner,
		exporter:    exporter,
		tokens:      tokens,
		cfg:         cfg,
		logger:      logger,
	}
}

// Run executes the full completion sequence for one bot. Duplicate and
// concurrent invocations for the same bot return nil without side effects;
// the idempotency record and the lock decide which invocation does the work.
func (p *Pipeline) Run(ctx context.Context, botID string, eventTimestamp int64) error {
	// Idempotency gate: an existing record means the work is done or in
	// flight, regardless of its status
	existing, err := p.store.GetRecord(ctx, botID)
	if err != nil {
		return apperrors.ErrStoreFailed("get process record", err)
	}
	if existing != nil {
		if p.logger != nil {
			p.logger.Info("⏭️ Bot already processed, skipping",
				zap.String("bot_id", botID),
				zap.String("record_status", string(existing.Status)),
			)
		}
		return nil
	}

	acquired, err := p.store.TryAcquire(ctx, botID, p.cfg.LockTTL)
	if err != nil {
		return apperrors.ErrStoreFailed("acquire lock", err)
	}
	if !acquired {
		if p.logger != nil {
			p.logger.Info("⏭️ Another delivery is processing this bot, skipping",
				zap.String("bot_id", botID),
			)
		}
		return nil
	}

	// Cleanup must survive pipeline timeout/cancellation
	cleanupCtx := context.WithoutCancel(ctx)
	defer func() {
		if relErr := p.store.Release(cleanupCtx, botID); relErr != nil && p.logger != nil {
			p.logger.Error("❌ Failed to release lock",
				zap.String("bot_id", botID),
				zap.Error(relErr),
			)
		}
	}()

	// Re-check under the lock: a concurrent delivery may have finished the
	// work between our record check and our acquisition
	existing, err = p.store.GetRecord(ctx, botID)
	if err != nil {
		return apperrors.ErrStoreFailed("get process record", err)
	}
	if existing != nil {
		if p.logger != nil {
			p.logger.Info("⏭️ Bot processed while waiting for lock, skipping",
				zap.String("bot_id", botID),
			)
		}
		return nil
	}

	record := entities.NewProcessRecord(botID, eventTimestamp)
	if err := p.store.PutRecord(ctx, record, p.cfg.RecordTTL); err != nil {
		return apperrors.ErrStoreFailed("put process record", err)
	}

	pctx, cancel := pipelinectx.Begin(ctx, botID, p.cfg.PipelineTimeout)
	defer cancel()

	if p.logger != nil {
		p.logger.Info("🚀 Completion pipeline started", zap.String("bot_id", botID))
	}

	meeting, err := p.execute(pctx, botID)
	if err != nil {
		// No completed record after a failed run: delete the processing
		// marker so a redelivery can retry from scratch
		if delErr := p.store.DeleteRecord(cleanupCtx, botID); delErr != nil && p.logger != nil {
			p.logger.Error("❌ Failed to delete process record after failure",
				zap.String("bot_id", botID),
				zap.Error(delErr),
			)
		}
		if meeting != nil {
			meeting.MarkAsFailed(err.Error())
			if updErr := p.meetings.Update(cleanupCtx, meeting); updErr != nil && p.logger != nil {
				p.logger.Error("❌ Failed to mark meeting as failed",
					zap.String("bot_id", botID),
					zap.Error(updErr),
				)
			}
		}
		if p.logger != nil {
			p.logger.Error("❌ Completion pipeline failed",
				zap.String("bot_id", botID),
				zap.Error(err),
			)
		}
		return err
	}

	record.MarkCompleted()
	if err := p.store.PutRecord(cleanupCtx, record, p.cfg.RecordTTL); err != nil && p.logger != nil {
		// The work succeeded; the stale processing record still blocks
		// duplicates until its TTL
		p.logger.Warn("⚠️ Failed to mark process record completed",
			zap.String("bot_id", botID),
			zap.Error(err),
		)
	}

	if p.logger != nil {
		p.logger.Info("✅ Completion pipeline finished",
			zap.String("bot_id", botID),
			zap.String("meeting_id", meeting.ID.String()),
			zap.Duration("elapsed", pipelinectx.Elapsed(pctx)),
		)
	}
	return nil
}

// execute runs steps 1-10. It returns the meeting (when one was loaded) so
// the caller can mark it failed on error.
func (p *Pipeline) execute(ctx context.Context, botID string) (*entities.Meeting, error) {
	// Step 1: load meeting metadata
	meeting, err := p.meetings.FindByBotID(ctx, botID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, apperrors.ErrMeetingNotFound(botID)
	}
	meeting.MarkAsProcessing()
	if err := p.meetings.Update(ctx, meeting); err != nil {
		return meeting, err
	}

	// Step 2: recording duration from the provider's own timestamps
	bot, err := p.provider.GetBot(ctx, botID)
	if err != nil {
		return meeting, apperrors.ErrProviderFailed("get bot", err)
	}
	duration, err := bot.RecordingDuration()
	if err != nil {
		return meeting, apperrors.ErrProviderFailed("recording duration", err)
	}

	// Keep the provider's own view of the bot alongside our derived data
	if rawBot, mErr := json.Marshal(bot); mErr == nil {
		meeting.RawData = datatypes.JSON(rawBot)
	}

	// Step 3: fetch and normalize the transcript
	chunks, rawPayload, err := p.provider.GetTranscript(ctx, botID)
	if err != nil {
		return meeting, apperrors.ErrTranscriptFetchFailed(botID, err)
	}
	if len(chunks) == 0 && p.transcriber != nil && bot.AudioURL != "" {
		if p.logger != nil {
			p.logger.Info("🎙️ Provider has no transcript, falling back to audio transcription",
				zap.String("bot_id", botID),
			)
		}
		chunks, err = p.transcriber.Transcribe(ctx, bot.AudioURL)
		if err != nil {
			return meeting, apperrors.ErrTranscriptFetchFailed(botID, err)
		}
	}
	if len(chunks) == 0 {
		return meeting, apperrors.ErrTranscriptMalformed("no transcript available for this recording")
	}

	rawURL := ""
	if p.archive != nil && len(rawPayload) > 0 {
		if location, archErr := p.archive.StoreRawTranscript(ctx, botID, rawPayload); archErr != nil {
			if p.logger != nil {
				p.logger.Warn("⚠️ Raw transcript archival failed",
					zap.String("bot_id", botID),
					zap.Error(archErr),
				)
			}
		} else {
			rawURL = location
		}
	}

	segments, err := transcript.Normalize(chunks)
	if err != nil {
		return meeting, apperrors.ErrTranscriptMalformed(err.Error())
	}

	// Step 4: durability checkpoint before the expensive analysis phase
	if err := p.meetings.UpdateSegments(ctx, meeting.ID, segments, rawURL); err != nil {
		return meeting, err
	}
	meeting.Segments = segments
	meeting.RawTranscriptURL = rawURL

	// Step 5: analysis fan-out
	result, err := p.analysis.Analyze(ctx, segments, meeting.Headers, meeting.CustomInstructions)
	if err != nil {
		return meeting, err
	}

	// Step 6: metrics and insights
	meeting.ExtractedFields = result.ExtractedFields
	meeting.Summary = result.Summary
	meeting.KeyPoints = result.KeyPoints
	meeting.ActionItems = result.ActionItems
	meeting.Highlights = result.Highlights
	meeting.Metrics = entities.MeetingMetrics{
		DurationSeconds:      int(duration.Seconds()),
		FieldsAnalyzed:       len(meeting.Headers),
		SuccessRate:          SuccessRate(result.ExtractedFields, meeting.Headers),
		SpeakerParticipation: SpeakerParticipation(segments),
		TopicDistribution:    result.TopicDistribution,
		ProcessingDurationMs: pipelinectx.Elapsed(ctx).Milliseconds(),
	}
	if err := p.meetings.Update(ctx, meeting); err != nil {
		return meeting, err
	}

	// Step 7: valid spreadsheet credential
	cred, err := p.credentials.FindByUserID(ctx, meeting.UserID)
	if err != nil {
		return meeting, err
	}
	if cred == nil {
		return meeting, apperrors.ErrCredentialExpired(meeting.UserID.String())
	}
	if cred.IsExpired() {
		token, refreshErr := p.tokens.RefreshToken(ctx, cred.RefreshToken)
		if refreshErr != nil {
			return meeting, apperrors.ErrCredentialExpired(meeting.UserID.String())
		}
		cred.UpdateToken(token.AccessToken, token.Expiry)
		if token.RefreshToken != "" {
			cred.RefreshToken = token.RefreshToken
		}
		if err := p.credentials.Save(ctx, cred); err != nil {
			return meeting, err
		}
	}

	// Step 8: spreadsheet export
	sheetName, rowNum, err := p.exporter.Export(ctx, cred.AccessToken, meeting)
	if err != nil {
		return meeting, err
	}
	if meeting.SpreadsheetRowNumber == nil {
		meeting.SheetName = &sheetName
		meeting.SpreadsheetRowNumber = &rowNum
	}

	// Step 9: charge the recording
	minutes := ChargeableMinutes(duration)
	if err := p.balances.Deduct(ctx, meeting.UserID, minutes); err != nil {
		// The meeting is fully analyzed and exported at this point; the
		// charge is the only thing that failed. Log it as its own case so
		// reconciliation can find it.
		if p.logger != nil {
			p.logger.Error("🚨 Balance deduction failed after successful export, reconciliation required",
				zap.String("bot_id", botID),
				zap.String("meeting_id", meeting.ID.String()),
				zap.String("user_id", meeting.UserID.String()),
				zap.Int64("minutes", minutes),
				zap.Error(err),
			)
		}
		return meeting, err
	}

	// Step 10: done
	meeting.MarkAsCompleted()
	if err := p.meetings.Update(ctx, meeting); err != nil {
		return meeting, err
	}
	return meeting, nil
}
