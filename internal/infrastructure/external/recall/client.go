package recall

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
	"github.com/callscribe-team/callscribe/pkg/config"
)

// Client is a minimal client for the recording-bot provider API
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a provider client using values from the provided config
func NewClient(cfg *config.ProviderConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Bot is the provider's view of a recording bot
type Bot struct {
	ID                 string     `json:"id"`
	Status             string     `json:"status"`
	MeetingURL         string     `json:"meeting_url,omitempty"`
	RecordingStartedAt *time.Time `json:"recording_started_at,omitempty"`
	RecordingEndedAt   *time.Time `json:"recording_ended_at,omitempty"`
	AudioURL           string     `json:"audio_url,omitempty"`
}

// RecordingDuration returns the recorded duration from the provider's own
// recording timestamps, independent of transcript content
func (b *Bot) RecordingDuration() (time.Duration, error) {
	if b.RecordingStartedAt == nil || b.RecordingEndedAt == nil {
		return 0, fmt.Errorf("bot %s has no recording timestamps", b.ID)
	}
	d := b.RecordingEndedAt.Sub(*b.RecordingStartedAt)
	if d < 0 {
		return 0, fmt.Errorf("bot %s has recording end before start", b.ID)
	}
	return d, nil
}

// transcriptChunk is the provider's raw transcript shape: one entry per
// contiguous speaker run, words with relative timestamps in seconds
type transcriptChunk struct {
	Speaker string `json:"speaker"`
	Words   []struct {
		Text           string  `json:"text"`
		StartTimestamp float64 `json:"start_timestamp"`
		EndTimestamp   float64 `json:"end_timestamp"`
	} `json:"words"`
}

// GetBot fetches bot status and recording timing metadata
func (c *Client) GetBot(ctx context.Context, botID string) (*Bot, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bot/%s/", c.baseURL, botID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("provider returned status %d for bot %s", resp.StatusCode, botID)
	}

	var bot Bot
	if err := json.NewDecoder(resp.Body).Decode(&bot); err != nil {
		return nil, err
	}
	return &bot, nil
}

// GetTranscript downloads the raw transcript for a bot. It returns the
// parsed per-speaker chunks plus the raw payload for archival. An empty
// slice with no error means the provider has no transcript for this bot.
func (c *Client) GetTranscript(ctx context.Context, botID string) ([]entities.SpeakerChunk, []byte, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bot/%s/transcript/", c.baseURL, botID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, nil
	}
	if resp.StatusCode >= 400 {
		return nil, nil, fmt.Errorf("provider returned status %d for transcript of bot %s", resp.StatusCode, botID)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, nil, err
	}

	var wire []transcriptChunk
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, nil, fmt.Errorf("failed to parse transcript for bot %s: %w", botID, err)
	}

	chunks := make([]entities.SpeakerChunk, 0, len(wire))
	for _, tc := range wire {
		chunk := entities.SpeakerChunk{Speaker: tc.Speaker}
		for _, w := range tc.Words {
			chunk.Words = append(chunk.Words, entities.TimedWord{
				Text:  w.Text,
				Start: w.StartTimestamp,
				End:   w.EndTimestamp,
			})
		}
		chunks = append(chunks, chunk)
	}
	return chunks, raw, nil
}
