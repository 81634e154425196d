package guessing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
	"github.com/david-campos/discord-bot-sub000/internal/obslog"
)

// ExpertRun is the controller of a single-player high-stakes sequence:
// every case carries a deadline scaled by its solution length, wrong
// guesses burn a shared failure budget and there are no hints. Emptying
// the pool is the only way to win.
type ExpertRun struct {
	ID          string
	User        bot.User
	pool        []Item
	solvedCount int
	failures    int
	maxFailures int
	timer       *time.Timer
	caseID      string
}

// StartExpertRun locks the channel for a run restricted to starter.
func (s *Session) StartExpertRun(ctx context.Context, starter bot.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runActiveLocked() {
		return ErrRunActive
	}
	pool := append([]Item(nil), s.game.Pool()...)
	if len(pool) == 0 {
		return ErrEmptyPool
	}
	if err := s.LockChannel(s.handleRunMessage); err != nil {
		return err
	}
	s.opts.Rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	s.expert = &ExpertRun{
		ID:          uuid.NewString(),
		User:        starter,
		pool:        pool,
		maxFailures: s.opts.ExpertMaxFailures,
	}
	s.cur = nil
	s.Bot.Say(ctx, s.Channel, "guess.expert_start", map[string]any{
		"User":        starter.DisplayName(),
		"Count":       len(pool),
		"MaxFailures": s.expert.maxFailures,
		"Cancel":      s.opts.CancelWord,
	})
	s.nextExpertCaseLocked(ctx)
	obslog.L().Info("expertrun_start",
		zap.String("game", s.game.Name()),
		zap.String("channel", s.Key),
		zap.String("run_id", s.expert.ID),
		zap.String("user", starter.ID),
	)
	return nil
}

// nextExpertCaseLocked draws the next case and arms its deadline, ending
// the run as a success when the pool is exhausted.
func (s *Session) nextExpertCaseLocked(ctx context.Context) {
	run := s.expert
	if len(run.pool) == 0 {
		s.finishExpertLocked(ctx, "guess.expert_success")
		return
	}
	c := s.drawFrom(&run.pool, true)
	deadline := s.opts.ExpertBaseTime + time.Duration(len([]rune(c.Solution)))*s.opts.ExpertTimePerChar
	s.armDeadlineLocked(deadline, c.ID)
	s.promptCurrent(ctx)
	s.Bot.Say(ctx, s.Channel, "guess.expert_deadline", map[string]any{
		"Seconds":   int(deadline.Seconds()),
		"Remaining": len(run.pool),
	})
}

// armDeadlineLocked schedules the timeout for one case, cancelling any
// pending timer first so a stale deadline can never fire twice.
func (s *Session) armDeadlineLocked(d time.Duration, caseID string) {
	run := s.expert
	if run.timer != nil {
		run.timer.Stop()
	}
	run.caseID = caseID
	run.timer = time.AfterFunc(d, func() { s.expireExpertCase(caseID) })
}

// expireExpertCase fires from the deadline timer. The case-id check makes
// it a no-op when the case was solved or the run torn down in the
// meantime.
func (s *Session) expireExpertCase(caseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := s.expert
	if run == nil || run.caseID != caseID || s.cur == nil || s.cur.ID != caseID {
		return
	}
	ctx := context.Background()
	s.Bot.Say(ctx, s.Channel, "guess.expert_timeout", map[string]any{"Solution": s.cur.Solution})
	s.finishExpertLocked(ctx, "guess.expert_failed")
}

func (s *Session) expertMessage(ctx context.Context, msg *bot.Message) {
	run := s.expert
	if msg.Author.ID != run.User.ID {
		return
	}
	text := strings.TrimSpace(msg.Content)
	if strings.EqualFold(text, s.opts.CancelWord) {
		s.finishExpertLocked(ctx, "guess.expert_cancelled")
		return
	}
	cur := s.cur
	if cur == nil || cur.Guessed {
		return
	}
	mistakes := MistakesInGuess(text, cur.Solution)
	cur.Attempts++
	if mistakes != 0 {
		run.failures++
		if run.failures >= run.maxFailures {
			s.Bot.Say(ctx, s.Channel, "guess.expert_budget_gone", map[string]any{"Solution": cur.Solution})
			s.finishExpertLocked(ctx, "guess.expert_failed")
			return
		}
		s.Bot.Say(ctx, s.Channel, "guess.expert_wrong", map[string]any{
			"Mistakes": mistakes,
			"Left":     run.maxFailures - run.failures,
		})
		return
	}

	cur.Guessed = true
	elapsed := s.opts.Now().Sub(cur.CreatedAt)
	if run.timer != nil {
		run.timer.Stop()
	}
	run.solvedCount++
	s.cur = nil
	s.Bot.Say(ctx, s.Channel, "guess.expert_solved", map[string]any{
		"Solution": cur.Solution,
		"Elapsed":  elapsed.Round(10 * time.Millisecond).String(),
	})
	if s.opts.Score != nil {
		s.opts.Score(ctx, run.User, Solved{
			Game:     s.game.Name(),
			Channel:  s.Channel,
			ItemKey:  cur.Item.Key(),
			Solution: cur.Solution,
			Attempts: cur.Attempts,
			Hints:    cur.Hints,
			Elapsed:  elapsed,
		})
	}
	s.nextExpertCaseLocked(ctx)
}

// finishExpertLocked tears the run down, stops its timer and releases the
// lock. Idempotent: a second call finds no run.
func (s *Session) finishExpertLocked(ctx context.Context, outcomeKey string) {
	run := s.expert
	if run == nil {
		return
	}
	if run.timer != nil {
		run.timer.Stop()
	}
	s.expert = nil
	s.cur = nil
	s.UnlockChannel()
	s.Bot.Say(ctx, s.Channel, outcomeKey, map[string]any{
		"User":   run.User.DisplayName(),
		"Solved": run.solvedCount,
	})
	obslog.L().Info("expertrun_finish",
		zap.String("game", s.game.Name()),
		zap.String("channel", s.Key),
		zap.String("run_id", run.ID),
		zap.String("outcome", outcomeKey),
		zap.Int("solved", run.solvedCount),
	)
}
