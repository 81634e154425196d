package gateway

import (
	"context"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
)

// Sender adapts the HTTP client to the core's outbound interface.
type Sender struct {
	c *Client
}

func NewSender(c *Client) *Sender { return &Sender{c: c} }

func (s *Sender) SendText(ctx context.Context, channelID, text string) (string, error) {
	return s.c.SendText(ctx, channelID, text)
}

func (s *Sender) EditText(ctx context.Context, channelID, messageID, text string) error {
	return s.c.EditText(ctx, channelID, messageID, text)
}

func (s *Sender) SendPrivate(ctx context.Context, userID, text string) error {
	return s.c.SendPrivate(ctx, userID, text)
}

func (s *Sender) SendEmbed(ctx context.Context, channelID string, e *bot.Embed) (string, error) {
	req := &EmbedRequest{
		Room:        channelID,
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
		Footer:      e.Footer,
	}
	for _, f := range e.Fields {
		req.Fields = append(req.Fields, EmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return s.c.SendEmbed(ctx, req)
}
