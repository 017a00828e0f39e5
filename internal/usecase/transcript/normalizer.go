package transcript

import (
	"fmt"
	"strings"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

// Normalize converts the provider's raw per-speaker word chunks into ordered
// speech segments: one segment per input chunk, text space-joined, start from
// the first word, end from the last word. Chunk ordering is preserved; it is
// the ordering every downstream "first N segments" preview relies on.
//
// The function is pure and total except for malformed input, which it
// rejects explicitly instead of guessing.
func Normalize(chunks []entities.SpeakerChunk) ([]entities.Segment, error) {
	segments := make([]entities.Segment, 0, len(chunks))

	for i, chunk := range chunks {
		if len(chunk.Words) == 0 {
			return nil, fmt.Errorf("chunk %d (speaker %q) has no words", i, chunk.Speaker)
		}

		words := make([]string, 0, len(chunk.Words))
		for j, w := range chunk.Words {
			if w.End < w.Start {
				return nil, fmt.Errorf("chunk %d word %d ends before it starts (%f < %f)", i, j, w.End, w.Start)
			}
			if w.Start < 0 {
				return nil, fmt.Errorf("chunk %d word %d has negative start %f", i, j, w.Start)
			}
			words = append(words, w.Text)
		}

		segments = append(segments, entities.Segment{
			Speaker:   chunk.Speaker,
			Text:      strings.Join(words, " "),
			StartTime: chunk.Words[0].Start,
			EndTime:   chunk.Words[len(chunk.Words)-1].End,
		})
	}

	return segments, nil
}
