package commands

import (
	"context"
	"strings"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
	"github.com/david-campos/discord-bot-sub000/internal/killer"
)

// killerErrKeys translates the engine's named conditions into catalog
// keys. An error outside the table is a defect and bubbles up. Start can
// also surface the channel lock when another game holds the room; that
// one is answered like any other busy channel.
var killerErrKeys = map[error]string{
	bot.ErrChannelLocked:       "common.channel_busy",
	killer.ErrAlreadyStarted:   "killer.err_already_started",
	killer.ErrNotStarted:       "killer.err_not_started",
	killer.ErrAlreadyJoined:    "killer.err_already_joined",
	killer.ErrNotInGame:        "killer.err_not_in_game",
	killer.ErrAuthorLeave:      "killer.err_author_leave",
	killer.ErrRosterFull:       "killer.err_roster_full",
	killer.ErrNotEnoughPlayers: "killer.err_not_enough_players",
	killer.ErrNotAuthor:        "killer.err_not_author",
	killer.ErrFinished:         "killer.err_finished",
}

// KillerCommand manages the per-channel social-deduction sessions.
type KillerCommand struct {
	cfg      killer.Config
	sessions *bot.Manager[*killer.Game]
}

func NewKillerCommand(cfg killer.Config) *KillerCommand {
	c := &KillerCommand{cfg: cfg}
	c.sessions = bot.NewManager(func(msg *bot.Message, bc *bot.Context, key string) *killer.Game {
		return killer.New(msg, bc, key, cfg, func() { c.sessions.Remove(key) })
	})
	return c
}

func (c *KillerCommand) Name() string { return "killer" }

// Acknowledge forwards a reaction-based turn acknowledgement to the
// channel's game, if one is running.
func (c *KillerCommand) Acknowledge(channelKey, userID string) {
	if g, ok := c.sessions.Peek(channelKey); ok {
		g.Acknowledge(userID)
	}
}

func (c *KillerCommand) Execute(ctx context.Context, bc *bot.Context, msg *bot.Message, args []string) error {
	sub := ""
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}

	if sub == "new" {
		if c.sessions.Has(c.sessions.KeyOf(msg)) {
			bc.Say(ctx, msg.Channel, "killer.err_exists", nil)
			return nil
		}
		g := c.sessions.GetOrCreate(msg, bc)
		bc.Say(ctx, msg.Channel, "killer.lobby_open", map[string]any{
			"User":     g.Author().DisplayName(),
			"Prefix":   bc.Prefix,
			"Capacity": killer.Capacity(),
		})
		return nil
	}

	g, ok := c.sessions.Peek(c.sessions.KeyOf(msg))
	if !ok {
		bc.Say(ctx, msg.Channel, "killer.no_game", map[string]any{"Prefix": bc.Prefix})
		return nil
	}

	var err error
	switch sub {
	case "join":
		if err = g.Join(msg.Author); err == nil {
			bc.Say(ctx, msg.Channel, "killer.joined", map[string]any{
				"User":    msg.Author.DisplayName(),
				"Players": len(g.Players()),
			})
		}
	case "leave":
		if err = g.Leave(msg.Author); err == nil {
			bc.Say(ctx, msg.Channel, "killer.left", map[string]any{
				"User":    msg.Author.DisplayName(),
				"Players": len(g.Players()),
			})
		}
	case "start":
		err = g.Start(ctx, msg.Author)
	case "end":
		err = g.EndInvestigation(msg.Author)
	case "cancel":
		err = g.Cancel(ctx, msg.Author)
	default:
		bc.Say(ctx, msg.Channel, "killer.usage", map[string]any{"Prefix": bc.Prefix})
		return nil
	}

	if err != nil {
		key, known := killerErrKeys[err]
		if !known {
			return err
		}
		bc.Say(ctx, msg.Channel, key, nil)
	}
	return nil
}
