package util

import (
	"context"
	"time"
)

// SleepContext pauses for dur or until ctx is done, whichever comes
// first, returning the context cause in the latter case.
func SleepContext(ctx context.Context, dur time.Duration) (err error) {
	timer := time.NewTimer(dur)
	defer func() {
		if err != nil && !timer.Stop() {
			<-timer.C
		}
	}()
	select {
	case <-ctx.Done():
		err = context.Cause(ctx)
		return
	case <-timer.C:
		return
	}
}
