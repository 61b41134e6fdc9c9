package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// RunScheduled sweeps on a 5-field cron schedule until ctx is done. Sweep
// errors other than cancellation are logged and the loop continues.
func (s *Sweeper) RunScheduled(ctx context.Context, expr string) error {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return fmt.Errorf("ingest: bad sweep schedule %q: %w", expr, err)
	}

	for {
		d := time.Until(sched.Next(time.Now()))
		if d < time.Second {
			d = time.Second
		}
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := s.Sweep(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log().Warn("scheduled sweep failed", "error", err)
		}
	}
}
