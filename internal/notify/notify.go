// Package notify announces upcoming rounds on a chat platform. Delivery
// is best-effort; a failed reminder is logged, never fatal.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/driveline/placetrack/internal/config"
	"github.com/driveline/placetrack/internal/models"
	"github.com/driveline/placetrack/internal/store"
	"gorm.io/gorm"
)

// roundDateLayout is the minute-granularity format rounds are stored in.
const roundDateLayout = "02-01-2006 15:04"

// Reminder is one upcoming round worth announcing.
type Reminder struct {
	CompanyName string
	Role        string
	RoundName   string
	RoundDate   time.Time
}

// Notifier delivers a reminder to one platform.
type Notifier interface {
	Send(ctx context.Context, r Reminder) error
}

// FromConfig builds the configured Notifier. It returns nil when no
// platform is configured.
func FromConfig(cfg config.NotifyConfig) (Notifier, error) {
	switch cfg.Platform {
	case "":
		return nil, nil
	case "slack":
		return NewSlack(cfg.SlackToken, cfg.SlackChannel), nil
	case "discord":
		return NewDiscord(cfg.DiscordToken, cfg.DiscordChannel)
	default:
		return nil, fmt.Errorf("notify: unsupported platform %q", cfg.Platform)
	}
}

// UpcomingReminders collects rounds of registered drives that start
// within the window after now. Rounds with the unset-date sentinel or an
// unparsable date are skipped, as are rounds already marked finished.
func UpcomingReminders(db *gorm.DB, window time.Duration, now time.Time) ([]Reminder, error) {
	drives, err := store.ListDrives(db)
	if err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}

	var reminders []Reminder
	for _, d := range drives {
		if d.RegistrationStatus != models.Registered {
			continue
		}
		rounds, err := store.ListRounds(db, d.ID)
		if err != nil {
			return nil, fmt.Errorf("notify: %w", err)
		}
		for _, r := range rounds {
			if r.Status == models.RoundFinished || r.RoundDate == models.RoundDateSentinel {
				continue
			}
			at, err := time.ParseInLocation(roundDateLayout, r.RoundDate, now.Location())
			if err != nil {
				continue
			}
			if at.Before(now) || at.After(now.Add(window)) {
				continue
			}
			reminders = append(reminders, Reminder{
				CompanyName: d.CompanyName,
				Role:        d.Role,
				RoundName:   r.RoundName,
				RoundDate:   at,
			})
		}
	}

	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].RoundDate.Before(reminders[j].RoundDate)
	})
	return reminders, nil
}

// Announce delivers every reminder, logging failures and moving on.
func Announce(ctx context.Context, n Notifier, reminders []Reminder, log *slog.Logger) {
	if n == nil || len(reminders) == 0 {
		return
	}
	if log == nil {
		log = slog.Default()
	}
	for _, r := range reminders {
		if err := n.Send(ctx, r); err != nil {
			log.Warn("reminder delivery failed",
				"company", r.CompanyName, "round", r.RoundName, "error", err)
			continue
		}
		log.Info("reminder sent", "company", r.CompanyName, "round", r.RoundName)
	}
}
