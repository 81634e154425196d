package guessing

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
)

type fakeSender struct {
	mu     sync.Mutex
	nextID int
	texts  []string
	edits  map[string]string
	embeds []*bot.Embed
}

func newFakeSender() *fakeSender {
	return &fakeSender{edits: make(map[string]string)}
}

func (f *fakeSender) SendText(ctx context.Context, channelID, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.texts = append(f.texts, text)
	return fmt.Sprintf("m%d", f.nextID), nil
}

func (f *fakeSender) EditText(ctx context.Context, channelID, messageID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits[messageID] = text
	return nil
}

func (f *fakeSender) SendEmbed(ctx context.Context, channelID string, e *bot.Embed) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.embeds = append(f.embeds, e)
	return fmt.Sprintf("m%d", f.nextID), nil
}

func (f *fakeSender) SendPrivate(ctx context.Context, userID, text string) error { return nil }

func (f *fakeSender) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

func (f *fakeSender) allTexts() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.texts, "\n")
}

func (f *fakeSender) textCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

func (f *fakeSender) embedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.embeds)
}

type stubGame struct {
	name  string
	items []Item
}

func (g stubGame) Name() string { return g.name }
func (g stubGame) Pool() []Item { return append([]Item(nil), g.items...) }
func (g stubGame) Solution(it Item) string {
	return it.(testItem).solution
}
func (g stubGame) Prompt(it Item) *bot.Embed {
	return &bot.Embed{Title: "guess: " + it.Key()}
}

// fakeClock lets tests control elapsed time without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type env struct {
	sender    *fakeSender
	bc        *bot.Context
	clock     *fakeClock
	scored    []Solved
	users     []bot.User
	standings []Standing
}

func newSessionEnv(t *testing.T, opts Options, solutions ...string) (*Session, *env) {
	t.Helper()
	e := &env{sender: newFakeSender(), clock: newFakeClock()}
	e.bc = &bot.Context{Prefix: "!", Sender: e.sender, Locks: bot.NewReceptionLock()}

	items := make([]Item, len(solutions))
	for i, s := range solutions {
		items[i] = testItem{key: s, solution: s}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	opts.Now = e.clock.Now
	opts.Score = func(ctx context.Context, user bot.User, rec Solved) {
		e.scored = append(e.scored, rec)
		e.users = append(e.users, user)
	}
	opts.Speed = func(ctx context.Context, game string, standings []Standing) {
		e.standings = standings
	}
	msg := &bot.Message{Channel: "room", Kind: bot.ChannelGroup, Author: bot.User{ID: "u1", Name: "Ana"}}
	s := NewSession(msg, e.bc, msg.ChannelKey(), stubGame{name: "stub", items: items}, opts)
	return s, e
}

func plain(user, content string) *bot.Message {
	return &bot.Message{Channel: "room", Kind: bot.ChannelGroup, Author: bot.User{ID: user, Name: user}, Content: content}
}

func TestBasicGuessFlow(t *testing.T) {
	s, e := newSessionEnv(t, Options{}, "Madrid")
	ctx := context.Background()
	ana := bot.User{ID: "u1", Name: "Ana"}

	s.ShowOrDraw(ctx)
	if e.sender.embedCount() != 1 {
		t.Fatalf("expected prompt embed")
	}
	// Showing again re-posts the same case, no new draw.
	s.ShowOrDraw(ctx)
	if e.sender.embedCount() != 2 {
		t.Fatalf("expected reposted prompt")
	}

	s.Guess(ctx, ana, "Berlin")
	if !strings.Contains(e.sender.lastText(), "guess.wrong") {
		t.Fatalf("wrong guess reply = %q", e.sender.lastText())
	}

	e.clock.Advance(8 * time.Second)
	s.Guess(ctx, ana, "madrid")
	if !strings.Contains(e.sender.lastText(), "guess.accepted") {
		t.Fatalf("accepted reply = %q", e.sender.lastText())
	}
	if len(e.scored) != 1 {
		t.Fatalf("score callback ran %d times", len(e.scored))
	}
	rec := e.scored[0]
	if rec.Solution != "Madrid" || rec.Attempts != 2 || rec.Elapsed != 8*time.Second || rec.SpeedRun {
		t.Fatalf("bad record: %+v", rec)
	}

	// Case is consumed; a further guess finds nothing.
	s.Guess(ctx, ana, "Madrid")
	if !strings.Contains(e.sender.lastText(), "guess.no_case") {
		t.Fatalf("post-solve reply = %q", e.sender.lastText())
	}
}

func TestGuessWithoutCase(t *testing.T) {
	s, e := newSessionEnv(t, Options{}, "Madrid")
	s.Guess(context.Background(), bot.User{ID: "u1"}, "Madrid")
	if !strings.Contains(e.sender.lastText(), "guess.no_case") {
		t.Fatalf("got %q", e.sender.lastText())
	}
	if len(e.scored) != 0 {
		t.Fatalf("nothing should be scored")
	}
}

func TestHintCooldownEditsInPlace(t *testing.T) {
	s, e := newSessionEnv(t, Options{HintCooldown: 3 * time.Second}, "Madrid")
	ctx := context.Background()
	s.ShowOrDraw(ctx)

	s.Hint(ctx)
	if s.cur.Hints != 1 {
		t.Fatalf("first hint not revealed")
	}
	firstHints := e.sender.textCount()

	// Within cooldown: the existing message is edited, nothing new revealed.
	e.clock.Advance(time.Second)
	s.Hint(ctx)
	if s.cur.Hints != 1 {
		t.Fatalf("cooldown hint revealed more characters")
	}
	if e.sender.textCount() != firstHints {
		t.Fatalf("cooldown hint posted a new message")
	}
	if len(e.sender.edits) != 1 {
		t.Fatalf("expected one in-place edit, got %d", len(e.sender.edits))
	}

	// Past cooldown: a fresh batch in a fresh message.
	e.clock.Advance(3 * time.Second)
	s.Hint(ctx)
	if s.cur.Hints != 2 {
		t.Fatalf("post-cooldown hint did not reveal")
	}
	if e.sender.textCount() != firstHints+1 {
		t.Fatalf("post-cooldown hint did not post")
	}
}

func TestHintWithoutCase(t *testing.T) {
	s, e := newSessionEnv(t, Options{}, "Madrid")
	s.Hint(context.Background())
	if !strings.Contains(e.sender.lastText(), "guess.no_case") {
		t.Fatalf("got %q", e.sender.lastText())
	}
}
