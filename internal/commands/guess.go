package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
	"github.com/david-campos/discord-bot-sub000/internal/guessing"
	"github.com/david-campos/discord-bot-sub000/internal/scores"
)

// GuessCommand fronts one guessing game. The bare command shows or draws a
// case and any other argument text is tried as a guess, so subcommand
// words are reserved.
type GuessCommand struct {
	name     string
	sessions *bot.Manager[*guessing.Session]
	repo     *scores.Repository
	cache    *scores.Cache
}

func NewGuessCommand(name string, game guessing.Game, opts guessing.Options, repo *scores.Repository, cache *scores.Cache) *GuessCommand {
	return &GuessCommand{
		name: name,
		sessions: bot.NewManager(func(msg *bot.Message, bc *bot.Context, key string) *guessing.Session {
			return guessing.NewSession(msg, bc, key, game, opts)
		}),
		repo:  repo,
		cache: cache,
	}
}

func (c *GuessCommand) Name() string { return c.name }

func (c *GuessCommand) Execute(ctx context.Context, bc *bot.Context, msg *bot.Message, args []string) error {
	s := c.sessions.GetOrCreate(msg, bc)
	if len(args) == 0 {
		s.ShowOrDraw(ctx)
		return nil
	}
	switch strings.ToLower(args[0]) {
	case "hint":
		s.Hint(ctx)
	case "speedrun", "speed":
		count := 0
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				bc.Say(ctx, msg.Channel, "guess.bad_count", nil)
				return nil
			}
			count = n
		}
		c.reportStartErr(ctx, bc, msg, s.StartSpeedRun(ctx, msg.Author, count))
	case "expert":
		c.reportStartErr(ctx, bc, msg, s.StartExpertRun(ctx, msg.Author))
	case "top":
		return c.top(ctx, bc, msg)
	case "stats":
		return c.stats(ctx, bc, msg)
	default:
		s.Guess(ctx, msg.Author, strings.Join(args, " "))
	}
	return nil
}

func (c *GuessCommand) reportStartErr(ctx context.Context, bc *bot.Context, msg *bot.Message, err error) {
	switch {
	case err == nil:
	case errors.Is(err, guessing.ErrRunActive):
		bc.Say(ctx, msg.Channel, "guess.run_in_progress", nil)
	case errors.Is(err, guessing.ErrEmptyPool):
		bc.Say(ctx, msg.Channel, "guess.empty_pool", nil)
	case errors.Is(err, bot.ErrChannelLocked):
		bc.Say(ctx, msg.Channel, "common.channel_busy", nil)
	default:
		bc.Say(ctx, msg.Channel, "common.internal_error", nil)
	}
}

// top prefers the durable repository; without a database the redis solve
// counter still produces a ranking (ids only, names live in postgres).
func (c *GuessCommand) top(ctx context.Context, bc *bot.Context, msg *bot.Message) error {
	var fields []bot.EmbedField
	if c.repo != nil {
		entries, err := c.repo.Top(ctx, c.name, 10)
		if err != nil {
			return fmt.Errorf("leaderboard for %s: %w", c.name, err)
		}
		for i, entry := range entries {
			fields = append(fields, bot.EmbedField{
				Name:  fmt.Sprintf("%d. %s", i+1, entry.UserName),
				Value: bc.Text("guess.top_line", map[string]any{"Solved": entry.Solved}),
			})
		}
	} else {
		entries, err := c.cache.Leaderboard(ctx, c.name, 10)
		if err != nil {
			return fmt.Errorf("leaderboard for %s: %w", c.name, err)
		}
		for i, entry := range entries {
			fields = append(fields, bot.EmbedField{
				Name:  fmt.Sprintf("%d. %s", i+1, entry.UserID),
				Value: bc.Text("guess.top_line", map[string]any{"Solved": entry.Solved}),
			})
		}
	}
	if len(fields) == 0 {
		bc.Say(ctx, msg.Channel, "guess.top_empty", nil)
		return nil
	}
	e := &bot.Embed{
		Title:  bc.Text("guess.top_title", map[string]any{"Game": c.name}),
		Fields: fields,
	}
	_, err := bc.Sender.SendEmbed(ctx, msg.Channel, e)
	return err
}

func (c *GuessCommand) stats(ctx context.Context, bc *bot.Context, msg *bot.Message) error {
	st, err := c.repo.UserStats(ctx, msg.Author.ID, c.name)
	if err != nil {
		return fmt.Errorf("stats for %s: %w", msg.Author.ID, err)
	}
	if st.Solved == 0 {
		bc.Say(ctx, msg.Channel, "guess.stats_empty", map[string]any{"User": msg.Author.DisplayName()})
		return nil
	}
	bc.Say(ctx, msg.Channel, "guess.stats", map[string]any{
		"User":     msg.Author.DisplayName(),
		"Solved":   st.Solved,
		"Attempts": st.Attempts,
		"Hints":    st.Hints,
		"Best":     st.Best.String(),
		"Mean":     st.Mean.String(),
	})
	return nil
}
