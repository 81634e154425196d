package commands

import (
	"context"
	"strings"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
)

// HelpCommand lists whatever is registered on the dispatcher.
type HelpCommand struct {
	dispatcher *bot.Dispatcher
}

func NewHelpCommand(d *bot.Dispatcher) *HelpCommand {
	return &HelpCommand{dispatcher: d}
}

func (c *HelpCommand) Name() string { return "help" }

func (c *HelpCommand) Execute(ctx context.Context, bc *bot.Context, msg *bot.Message, args []string) error {
	names := c.dispatcher.CommandNames()
	for i, n := range names {
		names[i] = bc.Prefix + n
	}
	bc.Say(ctx, msg.Channel, "common.help", map[string]any{
		"Commands": strings.Join(names, ", "),
	})
	return nil
}
