package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type ctxKey string

const RunIDKey ctxKey = "run_id"

// Attach a batch run identifier to ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// Time logs the duration of an operation at debug level, or at warn level when
// the deferred error is set.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	runID, _ := ctx.Value(RunIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Warn().Str("run_id", runID).Str("op", name).Int64("dur_ms", dur.Milliseconds()).Err(*errp).Send()
			return
		}
		log.Debug().Str("run_id", runID).Str("op", name).Int64("dur_ms", dur.Milliseconds()).Send()
	}
}
