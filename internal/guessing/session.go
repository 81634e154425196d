package guessing

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
	"github.com/david-campos/discord-bot-sub000/internal/obslog"
)

var (
	ErrRunActive = errors.New("a run is already active for this channel")
	ErrEmptyPool = errors.New("the game pool has no cases")
)

// Solved describes one successfully guessed case, handed to the score callback.
type Solved struct {
	Game     string
	Channel  string
	ItemKey  string
	Solution string
	Attempts int
	Hints    int
	Elapsed  time.Duration
	SpeedRun bool
}

// ScoreFunc persists a completed case. Failures are the callback's problem;
// the engine state is already consistent when it runs.
type ScoreFunc func(ctx context.Context, user bot.User, rec Solved)

// Standing is one participant's final line of a speed-run ranking.
type Standing struct {
	UserID  string
	Name    string
	Correct int
	Mean    time.Duration
}

// SpeedResultFunc receives the final ranking of a completed speed-run.
type SpeedResultFunc func(ctx context.Context, game string, standings []Standing)

// Options tune a session. Zero values fall back to sensible defaults.
type Options struct {
	HintCooldown      time.Duration
	SpeedRunCount     int
	ExpertBaseTime    time.Duration
	ExpertTimePerChar time.Duration
	ExpertMaxFailures int
	CancelWord        string
	HintWord          string

	Rand  *rand.Rand
	Now   func() time.Time
	Score ScoreFunc
	Speed SpeedResultFunc
}

func (o Options) withDefaults() Options {
	if o.HintCooldown <= 0 {
		o.HintCooldown = 3 * time.Second
	}
	if o.SpeedRunCount <= 0 {
		o.SpeedRunCount = 10
	}
	if o.ExpertBaseTime <= 0 {
		o.ExpertBaseTime = 10 * time.Second
	}
	if o.ExpertTimePerChar <= 0 {
		o.ExpertTimePerChar = 1500 * time.Millisecond
	}
	if o.ExpertMaxFailures <= 0 {
		o.ExpertMaxFailures = 3
	}
	if o.CancelWord == "" {
		o.CancelWord = "cancel"
	}
	if o.HintWord == "" {
		o.HintWord = "hint"
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Session is the per-channel state of one guessing game. All mutation goes
// through the session mutex; message sends happen after the synchronous
// mutation completes wherever that matters for reentrancy.
type Session struct {
	bot.ChannelSession

	game Game
	opts Options

	mu     sync.Mutex
	cur    *Case
	speed  *SpeedRun
	expert *ExpertRun
}

func NewSession(msg *bot.Message, bc *bot.Context, key string, game Game, opts Options) *Session {
	return &Session{
		ChannelSession: bot.NewChannelSession(msg, bc, key),
		game:           game,
		opts:           opts.withDefaults(),
	}
}

// drawFrom creates a new current case from the given pool, removing the
// drawn item when the pool is run-local (removeDrawn).
func (s *Session) drawFrom(pool *[]Item, removeDrawn bool) *Case {
	items := *pool
	if len(items) == 0 {
		return nil
	}
	i := s.opts.Rand.Intn(len(items))
	it := items[i]
	if removeDrawn {
		items[i] = items[len(items)-1]
		*pool = items[:len(items)-1]
	}
	c := newCase(it, s.game.Solution(it), s.opts.Now())
	s.cur = c
	return c
}

func (s *Session) promptCurrent(ctx context.Context) {
	cur := s.cur
	if cur == nil {
		return
	}
	_, _ = s.Bot.Sender.SendEmbed(ctx, s.Channel, s.game.Prompt(cur.Item))
}

// ShowOrDraw posts the current case, drawing a fresh one when none is active.
// No-op while a run owns the channel.
func (s *Session) ShowOrDraw(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runActiveLocked() {
		s.Bot.Say(ctx, s.Channel, "guess.run_in_progress", nil)
		return
	}
	if s.cur == nil {
		pool := s.game.Pool()
		s.drawFrom(&pool, false)
	}
	s.promptCurrent(ctx)
}

func (s *Session) runActiveLocked() bool {
	return s.speed != nil || s.expert != nil
}

// Guess evaluates a basic-mode guess from a command invocation.
func (s *Session) Guess(ctx context.Context, user bot.User, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runActiveLocked() {
		s.Bot.Say(ctx, s.Channel, "guess.run_in_progress", nil)
		return
	}
	cur := s.cur
	if cur == nil {
		s.Bot.Say(ctx, s.Channel, "guess.no_case", map[string]string{"Prefix": s.Bot.Prefix, "Game": s.game.Name()})
		return
	}
	if cur.Guessed {
		// Frozen case: nothing changes, nothing is scored.
		s.Bot.Say(ctx, s.Channel, "guess.already_solved", nil)
		return
	}
	mistakes := MistakesInGuess(text, cur.Solution)
	cur.Attempts++
	if mistakes != 0 {
		s.Bot.Say(ctx, s.Channel, "guess.wrong", map[string]any{"Mistakes": mistakes})
		return
	}
	cur.Guessed = true
	elapsed := s.opts.Now().Sub(cur.CreatedAt)
	s.cur = nil
	s.Bot.Say(ctx, s.Channel, "guess.accepted", map[string]any{
		"User":     user.DisplayName(),
		"Solution": cur.Solution,
		"Attempts": cur.Attempts,
	})
	if s.opts.Score != nil {
		s.opts.Score(ctx, user, Solved{
			Game:     s.game.Name(),
			Channel:  s.Channel,
			ItemKey:  cur.Item.Key(),
			Solution: cur.Solution,
			Attempts: cur.Attempts,
			Hints:    cur.Hints,
			Elapsed:  elapsed,
		})
	}
	obslog.L().Info("guess_solved",
		zap.String("game", s.game.Name()),
		zap.String("channel", s.Key),
		zap.String("user", user.ID),
		zap.Int("attempts", cur.Attempts),
	)
}

// Hint reveals a fresh batch of characters of the current case, or within
// the cooldown window re-renders the existing hint message in place.
func (s *Session) Hint(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hintLocked(ctx)
}

func (s *Session) hintLocked(ctx context.Context) {
	cur := s.cur
	if cur == nil || cur.Guessed {
		s.Bot.Say(ctx, s.Channel, "guess.no_case", map[string]string{"Prefix": s.Bot.Prefix, "Game": s.game.Name()})
		return
	}
	now := s.opts.Now()
	if !cur.LastHintAt.IsZero() && now.Sub(cur.LastHintAt) < s.opts.HintCooldown {
		// Within the cooldown the existing hint is refreshed, not reposted.
		if cur.hintMsgID != "" {
			_ = s.Bot.Sender.EditText(ctx, s.Channel, cur.hintMsgID, s.hintText(cur))
		}
		return
	}
	cur.RevealBatch(s.opts.Rand)
	cur.LastHintAt = now
	id, err := s.Bot.Sender.SendText(ctx, s.Channel, s.hintText(cur))
	if err == nil && id != "" {
		cur.hintMsgID = id
	}
}

func (s *Session) hintText(c *Case) string {
	return s.Bot.Text("guess.hint", map[string]any{"Masked": c.Masked(), "Hints": c.Hints})
}
