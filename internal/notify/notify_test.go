package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/driveline/placetrack/internal/config"
	"github.com/driveline/placetrack/internal/models"
	"github.com/driveline/placetrack/internal/store"
	slackapi "github.com/slack-go/slack"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Drive{}, &models.Round{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func seedDriveWithRound(t *testing.T, gdb *gorm.DB, reg, roundDate, roundStatus string) {
	t.Helper()
	id, err := store.CreateDrive(gdb, &models.Drive{
		CompanyName:        "Acme",
		Role:               "SDE",
		RegistrationStatus: reg,
	})
	if err != nil {
		t.Fatalf("seed drive: %v", err)
	}
	_, err = store.CreateRound(gdb, &models.Round{
		DriveID:     id,
		RoundNumber: 1,
		RoundName:   "Interview",
		RoundDate:   roundDate,
		Status:      roundStatus,
	})
	if err != nil {
		t.Fatalf("seed round: %v", err)
	}
}

func TestUpcomingRemindersWindow(t *testing.T) {
	gdb := testDB(t)
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	seedDriveWithRound(t, gdb, models.Registered, "01-09-2026 15:00", models.RoundUpcoming)  // inside window
	seedDriveWithRound(t, gdb, models.Registered, "03-09-2026 10:00", models.RoundUpcoming)  // beyond window
	seedDriveWithRound(t, gdb, models.Registered, "01-09-2026 08:00", models.RoundUpcoming)  // already past
	seedDriveWithRound(t, gdb, models.Registered, models.RoundDateSentinel, models.RoundUpcoming)
	seedDriveWithRound(t, gdb, models.Registered, "garbage", models.RoundUpcoming)
	seedDriveWithRound(t, gdb, models.Registered, "01-09-2026 16:00", models.RoundFinished)
	seedDriveWithRound(t, gdb, models.NotRegistered, "01-09-2026 15:00", models.RoundUpcoming)

	got, err := UpcomingReminders(gdb, 24*time.Hour, now)
	if err != nil {
		t.Fatalf("UpcomingReminders: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("reminders = %+v", got)
	}
	if got[0].CompanyName != "Acme" || got[0].RoundName != "Interview" {
		t.Errorf("reminder = %+v", got[0])
	}
	if got[0].RoundDate.Hour() != 15 {
		t.Errorf("round date = %v", got[0].RoundDate)
	}
}

func TestUpcomingRemindersSorted(t *testing.T) {
	gdb := testDB(t)
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	seedDriveWithRound(t, gdb, models.Registered, "01-09-2026 18:00", models.RoundUpcoming)
	seedDriveWithRound(t, gdb, models.Registered, "01-09-2026 12:00", models.RoundUpcoming)

	got, err := UpcomingReminders(gdb, 24*time.Hour, now)
	if err != nil {
		t.Fatalf("UpcomingReminders: %v", err)
	}
	if len(got) != 2 || !got[0].RoundDate.Before(got[1].RoundDate) {
		t.Errorf("reminders not sorted: %+v", got)
	}
}

type mockSlackClient struct {
	channels []string
	err      error
}

func (m *mockSlackClient) PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.channels = append(m.channels, channelID)
	return "", "", m.err
}

func TestSlackSend(t *testing.T) {
	mock := &mockSlackClient{}
	n := &SlackNotifier{client: mock, channelID: "C123"}
	r := Reminder{CompanyName: "Acme", Role: "SDE", RoundName: "Interview", RoundDate: time.Now()}

	if err := n.Send(context.Background(), r); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(mock.channels) != 1 || mock.channels[0] != "C123" {
		t.Errorf("posted to %v", mock.channels)
	}

	mock.err = errors.New("channel_not_found")
	if err := n.Send(context.Background(), r); err == nil {
		t.Error("want error from failed post")
	}
}

type mockDiscordSession struct {
	embeds []*discordgo.MessageEmbed
	err    error
}

func (m *mockDiscordSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.embeds = append(m.embeds, embed)
	return nil, m.err
}

func TestDiscordSend(t *testing.T) {
	mock := &mockDiscordSession{}
	n := &DiscordNotifier{sess: mock, channelID: "555"}
	r := Reminder{CompanyName: "Acme", Role: "SDE", RoundName: "Interview", RoundDate: time.Now()}

	if err := n.Send(context.Background(), r); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(mock.embeds) != 1 || mock.embeds[0].Title != "Acme: Interview" {
		t.Errorf("embeds = %+v", mock.embeds)
	}
}

func TestAnnounceSwallowsFailures(t *testing.T) {
	mock := &mockSlackClient{err: errors.New("boom")}
	n := &SlackNotifier{client: mock, channelID: "C123"}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	Announce(context.Background(), n, []Reminder{
		{CompanyName: "Acme", RoundName: "Interview"},
		{CompanyName: "Globex", RoundName: "OA"},
	}, log)

	if len(mock.channels) != 2 {
		t.Errorf("all reminders should be attempted, got %d", len(mock.channels))
	}
}

func TestFromConfig(t *testing.T) {
	if n, err := FromConfig(config.NotifyConfig{}); err != nil || n != nil {
		t.Errorf("empty platform: %v, %v", n, err)
	}
	n, err := FromConfig(config.NotifyConfig{Platform: "slack", SlackToken: "xoxb-x", SlackChannel: "C1"})
	if err != nil || n == nil {
		t.Errorf("slack: %v, %v", n, err)
	}
	if _, err := FromConfig(config.NotifyConfig{Platform: "telegram"}); err == nil {
		t.Error("unsupported platform should fail")
	}
}
