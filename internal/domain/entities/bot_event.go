package entities

import "fmt"

// BotEventType is the closed set of lifecycle events the recording provider
// delivers for a bot. Unknown event strings fail parsing loudly instead of
// falling through.
type BotEventType string

const (
	BotEventJoining                   BotEventType = "joining"
	BotEventInWaitingRoom             BotEventType = "in_waiting_room"
	BotEventInCallNotRecording        BotEventType = "in_call_not_recording"
	BotEventRecordingPermissionAllow  BotEventType = "recording_permission_allowed"
	BotEventRecordingPermissionDenied BotEventType = "recording_permission_denied"
	BotEventInCallRecording           BotEventType = "in_call_recording"
	BotEventCallEnded                 BotEventType = "call_ended"
	BotEventDone                      BotEventType = "done"
	BotEventFatal                     BotEventType = "fatal"
)

var knownBotEvents = map[BotEventType]struct{}{
	BotEventJoining:                   {},
	BotEventInWaitingRoom:             {},
	BotEventInCallNotRecording:        {},
	BotEventRecordingPermissionAllow:  {},
	BotEventRecordingPermissionDenied: {},
	BotEventInCallRecording:           {},
	BotEventCallEnded:                 {},
	BotEventDone:                      {},
	BotEventFatal:                     {},
}

// ParseBotEventType validates a provider event string against the closed set
func ParseBotEventType(s string) (BotEventType, error) {
	et := BotEventType(s)
	if _, ok := knownBotEvents[et]; !ok {
		return "", fmt.Errorf("unknown bot lifecycle event %q", s)
	}
	return et, nil
}

// BotEvent is a parsed lifecycle notification for a bot
type BotEvent struct {
	Type        BotEventType
	BotID       string
	Environment string
	// OccurredAt is the provider-side event timestamp in unix milliseconds,
	// used to detect stale or duplicate deliveries
	OccurredAt int64
}
