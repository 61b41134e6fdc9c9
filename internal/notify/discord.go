package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// discordSession abstracts the discordgo.Session methods we use, enabling
// test mocks.
type discordSession interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts round reminders to one Discord channel. Reminders
// go over the REST API; no gateway connection is opened.
type DiscordNotifier struct {
	sess      discordSession
	channelID string
}

// NewDiscord creates a Discord notifier with a real session.
func NewDiscord(botToken, channelID string) (*DiscordNotifier, error) {
	dg, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	return &DiscordNotifier{sess: dg, channelID: channelID}, nil
}

// Send posts one reminder as an embed.
func (d *DiscordNotifier) Send(_ context.Context, r Reminder) error {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s: %s", r.CompanyName, r.RoundName),
		Description: "Upcoming placement round",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Role", Value: r.Role, Inline: true},
			{Name: "When", Value: r.RoundDate.Format(roundDateLayout), Inline: true},
		},
	}
	if _, err := d.sess.ChannelMessageSendEmbed(d.channelID, embed); err != nil {
		return fmt.Errorf("discord: send embed: %w", err)
	}
	return nil
}
