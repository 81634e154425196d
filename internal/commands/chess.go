package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
	"github.com/david-campos/discord-bot-sub000/internal/games/chessduel"
)

// ChessCommand manages per-channel chess duels.
type ChessCommand struct {
	sessions *bot.Manager[*chessduel.Duel]
}

func NewChessCommand() *ChessCommand {
	c := &ChessCommand{}
	c.sessions = bot.NewManager(func(msg *bot.Message, bc *bot.Context, key string) *chessduel.Duel {
		return chessduel.New(msg, bc, key, func() { c.sessions.Remove(key) })
	})
	return c
}

func (c *ChessCommand) Name() string { return "chess" }

func (c *ChessCommand) Execute(ctx context.Context, bc *bot.Context, msg *bot.Message, args []string) error {
	sub := ""
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}
	switch sub {
	case "", "challenge":
		if c.sessions.Has(c.sessions.KeyOf(msg)) {
			bc.Say(ctx, msg.Channel, "chess.already_open", nil)
			return nil
		}
		d := c.sessions.GetOrCreate(msg, bc)
		target := ""
		if len(args) > 1 {
			target = strings.TrimPrefix(args[1], "@")
			d.Challenge(target)
		}
		bc.Say(ctx, msg.Channel, "chess.challenge", map[string]any{
			"User":   msg.Author.DisplayName(),
			"Target": target,
			"Prefix": bc.Prefix,
		})
	case "accept":
		d, ok := c.sessions.Peek(c.sessions.KeyOf(msg))
		if !ok {
			bc.Say(ctx, msg.Channel, "chess.no_challenge", map[string]any{"Prefix": bc.Prefix})
			return nil
		}
		switch err := d.Accept(ctx, msg.Author); {
		case err == nil:
		case errors.Is(err, chessduel.ErrSelfPlay):
			bc.Say(ctx, msg.Channel, "chess.self_play", nil)
		case errors.Is(err, chessduel.ErrNotChallenge):
			bc.Say(ctx, msg.Channel, "chess.not_for_you", nil)
		case errors.Is(err, chessduel.ErrDuelActive):
			bc.Say(ctx, msg.Channel, "chess.already_open", nil)
		case errors.Is(err, bot.ErrChannelLocked):
			bc.Say(ctx, msg.Channel, "common.channel_busy", nil)
		default:
			return err
		}
	case "cancel":
		d, ok := c.sessions.Peek(c.sessions.KeyOf(msg))
		if !ok {
			bc.Say(ctx, msg.Channel, "chess.no_challenge", map[string]any{"Prefix": bc.Prefix})
			return nil
		}
		switch err := d.Cancel(msg.Author); {
		case err == nil:
			bc.Say(ctx, msg.Channel, "chess.cancelled", nil)
		case errors.Is(err, chessduel.ErrDuelActive):
			bc.Say(ctx, msg.Channel, "chess.resign_instead", nil)
		case errors.Is(err, chessduel.ErrNotChallenge):
			bc.Say(ctx, msg.Channel, "chess.not_for_you", nil)
		default:
			return err
		}
	default:
		bc.Say(ctx, msg.Channel, "chess.usage", map[string]any{"Prefix": bc.Prefix})
	}
	return nil
}
