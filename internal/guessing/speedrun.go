package guessing

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
	"github.com/david-campos/discord-bot-sub000/internal/obslog"
)

// SpeedRun is the controller of one timed, open-to-everyone case sequence.
// It owns the channel lock for its whole duration; the first correct guess
// wins each case and the run ends when the target count is exhausted.
type SpeedRun struct {
	ID        string
	remaining int
	pool      []Item
	times     map[string][]time.Duration
	names     map[string]string
}

// StartSpeedRun locks the channel and begins a run of count cases (capped
// by the pool size). Fails when another run holds the channel.
func (s *Session) StartSpeedRun(ctx context.Context, starter bot.User, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runActiveLocked() {
		return ErrRunActive
	}
	pool := append([]Item(nil), s.game.Pool()...)
	if len(pool) == 0 {
		// A run over zero cases would lock the channel with nothing to
		// guess and no finish condition to release it.
		return ErrEmptyPool
	}
	if err := s.LockChannel(s.handleRunMessage); err != nil {
		return err
	}
	s.opts.Rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if count <= 0 {
		count = s.opts.SpeedRunCount
	}
	if count > len(pool) {
		count = len(pool)
	}
	s.speed = &SpeedRun{
		ID:        uuid.NewString(),
		remaining: count,
		pool:      pool,
		times:     make(map[string][]time.Duration),
		names:     make(map[string]string),
	}
	s.cur = nil
	s.Bot.Say(ctx, s.Channel, "guess.speed_start", map[string]any{
		"User":   starter.DisplayName(),
		"Count":  count,
		"Cancel": s.opts.CancelWord,
		"Hint":   s.opts.HintWord,
	})
	s.drawFrom(&s.speed.pool, true)
	s.promptCurrent(ctx)
	obslog.L().Info("speedrun_start",
		zap.String("game", s.game.Name()),
		zap.String("channel", s.Key),
		zap.String("run_id", s.speed.ID),
		zap.Int("count", count),
	)
	return nil
}

// handleRunMessage is the exclusive reception handler shared by both run
// kinds. A message arriving after teardown finds no run and releases the
// stale lock instead of acting.
func (s *Session) handleRunMessage(ctx context.Context, msg *bot.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.speed != nil:
		s.speedMessage(ctx, msg)
	case s.expert != nil:
		s.expertMessage(ctx, msg)
	default:
		s.UnlockChannel()
	}
}

func (s *Session) speedMessage(ctx context.Context, msg *bot.Message) {
	text := strings.TrimSpace(msg.Content)
	switch {
	case strings.EqualFold(text, s.opts.CancelWord):
		s.finishSpeedLocked(ctx, true)
		return
	case strings.EqualFold(text, s.opts.HintWord):
		s.hintLocked(ctx)
		return
	}

	cur := s.cur
	if cur == nil || cur.Guessed {
		// Case already taken by a message that arrived first.
		return
	}
	mistakes := MistakesInGuess(text, cur.Solution)
	cur.Attempts++
	if mistakes != 0 {
		if mistakes <= 2 {
			s.Bot.Say(ctx, s.Channel, "guess.close", map[string]any{"User": msg.Author.DisplayName(), "Mistakes": mistakes})
		}
		return
	}

	cur.Guessed = true
	elapsed := s.opts.Now().Sub(cur.CreatedAt)
	run := s.speed
	run.times[msg.Author.ID] = append(run.times[msg.Author.ID], elapsed)
	run.names[msg.Author.ID] = msg.Author.DisplayName()
	run.remaining--
	s.cur = nil

	s.Bot.Say(ctx, s.Channel, "guess.speed_solved", map[string]any{
		"User":      msg.Author.DisplayName(),
		"Solution":  cur.Solution,
		"Elapsed":   elapsed.Round(10 * time.Millisecond).String(),
		"Remaining": run.remaining,
	})
	if s.opts.Score != nil {
		s.opts.Score(ctx, msg.Author, Solved{
			Game:     s.game.Name(),
			Channel:  s.Channel,
			ItemKey:  cur.Item.Key(),
			Solution: cur.Solution,
			Attempts: cur.Attempts,
			Hints:    cur.Hints,
			Elapsed:  elapsed,
			SpeedRun: true,
		})
	}

	if run.remaining <= 0 {
		s.finishSpeedLocked(ctx, false)
		return
	}
	s.drawFrom(&run.pool, true)
	s.promptCurrent(ctx)
}

// finishSpeedLocked tears the run down and always releases the lock,
// whether the run completed or was cancelled.
func (s *Session) finishSpeedLocked(ctx context.Context, cancelled bool) {
	run := s.speed
	if run == nil {
		return
	}
	s.speed = nil
	s.cur = nil
	s.UnlockChannel()

	standings := runStandings(run)
	if cancelled {
		s.Bot.Say(ctx, s.Channel, "guess.speed_cancelled", nil)
	} else {
		s.sendRanking(ctx, standings)
		if s.opts.Speed != nil {
			s.opts.Speed(ctx, s.game.Name(), standings)
		}
	}
	obslog.L().Info("speedrun_finish",
		zap.String("game", s.game.Name()),
		zap.String("channel", s.Key),
		zap.String("run_id", run.ID),
		zap.Bool("cancelled", cancelled),
		zap.Int("participants", len(standings)),
	)
}

// runStandings ranks participants by correct guesses, ties broken by the
// lower mean answer time.
func runStandings(run *SpeedRun) []Standing {
	out := make([]Standing, 0, len(run.times))
	for id, times := range run.times {
		var total time.Duration
		for _, d := range times {
			total += d
		}
		out = append(out, Standing{
			UserID:  id,
			Name:    run.names[id],
			Correct: len(times),
			Mean:    total / time.Duration(len(times)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Correct != out[j].Correct {
			return out[i].Correct > out[j].Correct
		}
		return out[i].Mean < out[j].Mean
	})
	return out
}

var podium = []string{"🥇", "🥈", "🥉"}

func (s *Session) sendRanking(ctx context.Context, standings []Standing) {
	e := &bot.Embed{
		Title: s.Bot.Text("guess.speed_done_title", map[string]any{"Game": s.game.Name()}),
	}
	for i, st := range standings {
		marker := ""
		if i < len(podium) {
			marker = podium[i] + " "
		}
		e.Fields = append(e.Fields, bot.EmbedField{
			Name: marker + st.Name,
			Value: s.Bot.Text("guess.speed_done_line", map[string]any{
				"Correct": st.Correct,
				"Mean":    st.Mean.Round(10 * time.Millisecond).String(),
			}),
		})
	}
	if len(standings) == 0 {
		e.Description = s.Bot.Text("guess.speed_done_empty", nil)
	}
	_, _ = s.Bot.Sender.SendEmbed(ctx, s.Channel, e)
}
