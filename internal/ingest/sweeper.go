package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/driveline/placetrack/internal/models"
	"github.com/driveline/placetrack/internal/store"
	"gorm.io/gorm"
)

// DefaultCooldown is the pause between queued drives during a sweep, a
// backpressure measure against the extraction service.
const DefaultCooldown = 2 * time.Second

// Sweeper re-attempts extraction for every drive flagged queued_for_retry.
// Drives are processed one at a time; a failure on one drive never stops
// the sweep, it just stays queued for the next run.
type Sweeper struct {
	DB       *gorm.DB
	Engine   *Engine
	Cooldown time.Duration
	Log      *slog.Logger
}

// Sweep runs one pass over the retry queue. It returns an error only when
// the queue itself cannot be read or the context is cancelled; per-drive
// failures are logged and swallowed.
func (s *Sweeper) Sweep(ctx context.Context) error {
	drives, err := store.QueuedDrives(s.DB)
	if err != nil {
		return fmt.Errorf("ingest: sweep: %w", err)
	}
	if len(drives) == 0 {
		return nil
	}
	s.log().Info("retry sweep started", "queued", len(drives))

	for i, d := range drives {
		if d.ParseStatus == models.ParseFailed {
			// "failed" is never written by this flow; if an import put it
			// there, leave the drive alone until a new message resets it.
			s.log().Warn("skipping drive with failed parse status", "drive", d.ID, "company", d.CompanyName)
			continue
		}

		mode := ModeUpdate
		if d.ParseStatus == models.ParsePending {
			mode = ModeNew
		}

		if err := s.Engine.attemptMerge(ctx, d.ID, d.Messages(), mode); err != nil {
			s.log().Warn("retry failed, drive stays queued",
				"drive", d.ID, "company", d.CompanyName, "error", err)
		} else {
			s.log().Info("retry succeeded", "drive", d.ID, "company", d.CompanyName)
		}

		if i < len(drives)-1 {
			if err := s.wait(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// wait pauses for the configured cooldown, returning early when the
// context is cancelled.
func (s *Sweeper) wait(ctx context.Context) error {
	cooldown := s.Cooldown
	if cooldown <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(cooldown)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Sweeper) log() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
