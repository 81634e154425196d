package bot

import (
	"context"

	"github.com/david-campos/discord-bot-sub000/internal/msgcat"
)

// EmbedField is one labelled block of an outbound embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is the structured content the core hands to the sender; how it is
// rendered is the transport's concern.
type Embed struct {
	Title       string
	Description string
	Color       int
	Footer      string
	Fields      []EmbedField
}

// Sender is the outbound capability of the chat platform. SendText returns
// the delivered message id when the transport knows it ("" otherwise);
// EditText is best-effort and may fail on transports without edits.
type Sender interface {
	SendText(ctx context.Context, channelID, text string) (string, error)
	EditText(ctx context.Context, channelID, messageID, text string) error
	SendEmbed(ctx context.Context, channelID string, e *Embed) (string, error)
	SendPrivate(ctx context.Context, userID, text string) error
}

// Context carries the process-scoped collaborators every command and game
// session needs. It is built once at startup and passed by reference.
type Context struct {
	Prefix  string
	Sender  Sender
	Locks   *ReceptionLock
	Catalog *msgcat.Catalog
}

// Text renders a catalog template, falling back to the key itself so a
// missing translation never silences a game event.
func (c *Context) Text(key string, data any) string {
	if c.Catalog != nil {
		if s, err := c.Catalog.Render(key, data); err == nil {
			return s
		}
	}
	return key
}

// Say sends a catalog-rendered message to a channel, ignoring delivery
// errors that the caller has no way to recover from.
func (c *Context) Say(ctx context.Context, channelID, key string, data any) {
	_, _ = c.Sender.SendText(ctx, channelID, c.Text(key, data))
}
