package scores

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
	"github.com/david-campos/discord-bot-sub000/internal/guessing"
	"github.com/david-campos/discord-bot-sub000/internal/obslog"
)

// Tracker fans a solved case out to the durable repository and the hot
// cache. Storage failures are logged, never surfaced into the game flow.
// When a solve takes the item record, the channel it came from hears
// about it.
type Tracker struct {
	repo  *Repository
	cache *Cache
	bc    *bot.Context
}

func NewTracker(repo *Repository, cache *Cache, bc *bot.Context) *Tracker {
	return &Tracker{repo: repo, cache: cache, bc: bc}
}

// Solved implements the guessing score hook.
func (t *Tracker) Solved(ctx context.Context, u bot.User, s guessing.Solved) {
	if t == nil {
		return
	}
	err := t.repo.SaveSolved(ctx, Record{
		UserID:   u.ID,
		UserName: u.DisplayName(),
		Game:     s.Game,
		ItemKey:  s.ItemKey,
		Attempts: s.Attempts,
		Hints:    s.Hints,
		Elapsed:  s.Elapsed,
		SpeedRun: s.SpeedRun,
	})
	if err != nil {
		obslog.L().Warn("score_save_failed", zap.String("game", s.Game), zap.Error(err))
	}
	// Read the previous holder before the CAS so the announcement can
	// name who got beaten.
	prev, hadPrev, err := t.cache.Best(ctx, s.Game, s.ItemKey)
	if err != nil {
		obslog.L().Warn("score_best_read_failed", zap.String("game", s.Game), zap.Error(err))
	}
	improved, err := t.cache.UpdateBest(ctx, s.Game, s.ItemKey, u.ID, u.DisplayName(), s.Elapsed)
	switch {
	case err != nil:
		obslog.L().Warn("score_best_failed", zap.String("game", s.Game), zap.Error(err))
	case improved && t.bc != nil && s.Channel != "":
		t.announceRecord(ctx, u, s, prev, hadPrev)
	}
	if err := t.cache.RecordSolve(ctx, s.Game, u.ID); err != nil {
		obslog.L().Warn("score_count_failed", zap.String("game", s.Game), zap.Error(err))
	}
}

func (t *Tracker) announceRecord(ctx context.Context, u bot.User, s guessing.Solved, prev BestTime, hadPrev bool) {
	data := map[string]any{
		"User":        u.DisplayName(),
		"Solution":    s.Solution,
		"Elapsed":     s.Elapsed.Round(10 * time.Millisecond).String(),
		"Previous":    "",
		"PrevElapsed": "",
	}
	if hadPrev {
		data["Previous"] = prev.UserName
		data["PrevElapsed"] = prev.Elapsed.Round(10 * time.Millisecond).String()
	}
	t.bc.Say(ctx, s.Channel, "guess.new_record", data)
}
