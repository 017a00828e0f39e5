package processing

import (
	"time"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

// SuccessRate is the fraction of headers that received a non-empty extracted
// value. Zero headers means zero rate.
func SuccessRate(fields map[string]string, headers []string) float64 {
	if len(headers) == 0 {
		return 0
	}
	filled := 0
	for _, h := range headers {
		if fields[h] != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(headers))
}

// SpeakerParticipation splits total talk time across speakers as percentages.
// Values sum to 100 by construction since each segment's duration is counted
// exactly once.
func SpeakerParticipation(segments []entities.Segment) map[string]float64 {
	perSpeaker := make(map[string]float64)
	var total float64
	for _, seg := range segments {
		d := seg.Duration()
		perSpeaker[seg.Speaker] += d
		total += d
	}
	if total <= 0 {
		return map[string]float64{}
	}

	participation := make(map[string]float64, len(perSpeaker))
	for speaker, d := range perSpeaker {
		participation[speaker] = d / total * 100
	}
	return participation
}

// ChargeableMinutes converts a recording duration into billable whole
// minutes, rounding up. Any recording shorter than a minute charges one.
func ChargeableMinutes(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	minutes := int64(d / time.Minute)
	if d%time.Minute > 0 {
		minutes++
	}
	return minutes
}
