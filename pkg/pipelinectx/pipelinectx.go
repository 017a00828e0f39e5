package pipelinectx

import (
	"context"
	"time"
)

type KeyContext string

var (
	keyBotID     KeyContext = "bot_id"
	keyStartTime KeyContext = "pipeline_start_time"
)

// Begin initializes a pipeline context with metadata and a deadline. The
// deadline bounds a single run; a run that dies with it is simply retried by
// the provider's redelivery, never by us.
func Begin(parentCtx context.Context, botID string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parentCtx, timeout)

	ctx = context.WithValue(ctx, keyBotID, botID)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())

	return ctx, cancel
}

// GetBotID extracts the bot ID from context, so code deep in the pipeline
// can tag its logs without threading the id through every signature
func GetBotID(ctx context.Context) (string, bool) {
	botID, ok := ctx.Value(keyBotID).(string)
	return botID, ok
}

// GetStartTime extracts the pipeline start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyStartTime).(time.Time)
	return startTime, ok
}

// Elapsed returns wall-clock time since the pipeline began. Returns zero if
// the context was not created by Begin.
func Elapsed(ctx context.Context) time.Duration {
	startTime, ok := GetStartTime(ctx)
	if !ok {
		return 0
	}
	return time.Since(startTime)
}
