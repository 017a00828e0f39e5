package ai

import (
	"context"
	"fmt"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
	"github.com/callscribe-team/callscribe/pkg/config"
)

// FallbackTranscriber transcribes a recording's audio with AssemblyAI when
// the provider delivers no transcript of its own. The result is mapped into
// the same per-speaker chunk shape the provider transcript uses, so the rest
// of the pipeline is indifferent to the source.
type FallbackTranscriber struct {
	client *aai.Client
}

// NewFallbackTranscriber creates an AssemblyAI-backed fallback transcriber.
// Returns nil if no API key is configured; callers treat nil as "fallback
// unavailable".
func NewFallbackTranscriber(cfg *config.AssemblyAIConfig) *FallbackTranscriber {
	if cfg == nil || cfg.APIKey == "" {
		return nil
	}
	return &FallbackTranscriber{
		client: aai.NewClient(cfg.APIKey),
	}
}

// Transcribe submits the audio URL, waits for completion, and converts the
// speaker-labelled utterances into per-speaker word chunks with timestamps
// in seconds.
func (t *FallbackTranscriber) Transcribe(ctx context.Context, audioURL string) ([]entities.SpeakerChunk, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}

	transcript, err := t.client.Transcripts.TranscribeFromURL(ctx, audioURL, params)
	if err != nil {
		return nil, fmt.Errorf("assemblyai transcription failed: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := ""
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return nil, fmt.Errorf("assemblyai reported error: %s", msg)
	}

	chunks := make([]entities.SpeakerChunk, 0, len(transcript.Utterances))
	for _, utt := range transcript.Utterances {
		chunk := entities.SpeakerChunk{}
		if utt.Speaker != nil {
			chunk.Speaker = "Speaker " + *utt.Speaker
		}
		for _, w := range utt.Words {
			word := entities.TimedWord{}
			if w.Text != nil {
				word.Text = *w.Text
			}
			if w.Start != nil {
				word.Start = float64(*w.Start) / 1000.0 // ms to seconds
			}
			if w.End != nil {
				word.End = float64(*w.End) / 1000.0
			}
			chunk.Words = append(chunk.Words, word)
		}
		if len(chunk.Words) > 0 {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}
