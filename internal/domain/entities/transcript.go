package entities

// TimedWord is a single word with relative timestamps in seconds
type TimedWord struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SpeakerChunk is one contiguous run of words from a single speaker, as
// delivered by the provider's raw transcript
type SpeakerChunk struct {
	Speaker string      `json:"speaker"`
	Words   []TimedWord `json:"words"`
}

// Segment is a normalized speech segment: one per input chunk, with the
// chunk's words joined into text and the chunk's time bounds
type Segment struct {
	Speaker   string  `json:"speaker"`
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// Duration returns the segment length in seconds
func (s Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}
