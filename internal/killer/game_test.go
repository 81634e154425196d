package killer

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
	mu       sync.Mutex
	nextID   int
	texts    []string
	embeds   []*bot.Embed
	privates map[string][]string
}

func newFakeSender() *fakeSender {
	return &fakeSender{privates: make(map[string][]string)}
}

func (f *fakeSender) SendText(ctx context.Context, channelID, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.texts = append(f.texts, text)
	return fmt.Sprintf("m%d", f.nextID), nil
}

func (f *fakeSender) EditText(ctx context.Context, channelID, messageID, text string) error {
	return nil
}

func (f *fakeSender) SendEmbed(ctx context.Context, channelID string, e *bot.Embed) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embeds = append(f.embeds, e)
	return "", nil
}

func (f *fakeSender) SendPrivate(ctx context.Context, userID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.privates[userID] = append(f.privates[userID], text)
	return nil
}

func (f *fakeSender) allTexts() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.texts, "\n")
}

func (f *fakeSender) privateCount(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.privates[userID])
}

func (f *fakeSender) embedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.embeds)
}

func user(id string) bot.User { return bot.User{ID: id, Name: id} }

func msgFrom(id, content string) *bot.Message {
	return &bot.Message{Channel: "room", Kind: bot.ChannelGroup, Author: user(id), Content: content}
}

type killerEnv struct {
	sender  *fakeSender
	bc      *bot.Context
	removed bool
}

// newTestGame builds a lobby created by "author" with n players total.
func newTestGame(t *testing.T, n int, cfg Config) (*Game, *killerEnv) {
	t.Helper()
	e := &killerEnv{sender: newFakeSender()}
	e.bc = &bot.Context{Prefix: "!", Sender: e.sender, Locks: bot.NewReceptionLock()}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(11))
	}
	if cfg.TurnWindow == 0 {
		cfg.TurnWindow = time.Hour
	}
	msg := msgFrom("author", "!killer new")
	g := New(msg, e.bc, msg.ChannelKey(), cfg, func() { e.removed = true })
	for i := 1; i < n; i++ {
		if err := g.Join(user(fmt.Sprintf("p%d", i))); err != nil {
			t.Fatalf("join p%d: %v", i, err)
		}
	}
	return g, e
}

func (g *Game) murdererForTest() *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.murderer
}

func (g *Game) currentForTest() *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLobbyRules(t *testing.T) {
	g, _ := newTestGame(t, 2, Config{})

	if err := g.Join(user("p1")); err != ErrAlreadyJoined {
		t.Fatalf("dup join: %v", err)
	}
	if err := g.Leave(user("author")); err != ErrAuthorLeave {
		t.Fatalf("author leave: %v", err)
	}
	if err := g.Leave(user("ghost")); err != ErrNotInGame {
		t.Fatalf("stranger leave: %v", err)
	}
	if err := g.Leave(user("p1")); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if err := g.Start(context.Background(), user("p1")); err != ErrNotAuthor {
		t.Fatalf("non-author start: %v", err)
	}
	if err := g.Start(context.Background(), user("author")); err != ErrNotEnoughPlayers {
		t.Fatalf("solo start: %v", err)
	}
}

func TestRosterCapacity(t *testing.T) {
	g, _ := newTestGame(t, Capacity(), Config{})
	if err := g.Join(user("overflow")); err != ErrRosterFull {
		t.Fatalf("expected full roster, got %v", err)
	}
}

func TestStartDealsDisjointSecrets(t *testing.T) {
	g, e := newTestGame(t, 4, Config{})
	ctx := context.Background()

	if err := g.Start(ctx, user("author")); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer g.Cancel(ctx, user("author")) //nolint:errcheck

	if err := g.Start(ctx, user("author")); err != ErrAlreadyStarted {
		t.Fatalf("restart: %v", err)
	}
	if err := g.Join(user("late")); err != ErrAlreadyStarted {
		t.Fatalf("late join: %v", err)
	}
	if !e.bc.Locks.Locked(g.Key) {
		t.Fatalf("investigation must hold the channel lock")
	}

	players := g.Players()
	seenRooms := map[string]bool{}
	seenWeapons := map[string]bool{}
	for _, p := range players {
		if seenRooms[p.Room.Name] {
			t.Fatalf("room %q assigned twice", p.Room.Name)
		}
		seenRooms[p.Room.Name] = true
		if len(p.Weapons) != WeaponsPerPlayer {
			t.Fatalf("player %s has %d weapons", p.User.ID, len(p.Weapons))
		}
		for _, w := range p.Weapons {
			if seenWeapons[w.Name] {
				t.Fatalf("weapon %q assigned twice", w.Name)
			}
			seenWeapons[w.Name] = true
		}
		if e.sender.privateCount(p.User.ID) != 1 {
			t.Fatalf("player %s got %d briefings", p.User.ID, e.sender.privateCount(p.User.ID))
		}
	}

	m := g.murdererForTest()
	if m == nil {
		t.Fatalf("no murderer chosen")
	}
	if got := e.sender.privates[m.User.ID][0]; !strings.Contains(got, "killer.brief_murderer") {
		t.Fatalf("murderer briefing = %q", got)
	}
}

func TestCancelTearsDown(t *testing.T) {
	g, e := newTestGame(t, 3, Config{})
	ctx := context.Background()
	if err := g.Start(ctx, user("author")); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := g.Cancel(ctx, user("p1")); err != ErrNotAuthor {
		t.Fatalf("non-author cancel: %v", err)
	}
	if err := g.Cancel(ctx, user("author")); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if e.bc.Locks.Locked(g.Key) {
		t.Fatalf("cancel must release the lock")
	}
	if !e.removed {
		t.Fatalf("cancel must deregister the session")
	}
	if err := g.Join(user("late")); err != ErrFinished {
		t.Fatalf("join after finish: %v", err)
	}
}

func TestTurnAcknowledgementAdvances(t *testing.T) {
	g, e := newTestGame(t, 3, Config{})
	ctx := context.Background()
	if err := g.Start(ctx, user("author")); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer g.Cancel(ctx, user("author")) //nolint:errcheck

	waitFor(t, "first turn", func() bool { return g.currentForTest() != nil })
	first := g.currentForTest()

	// Text acknowledgement from the current player.
	e.bc.Locks.Dispatch(ctx, msgFrom(first.User.ID, "done"))
	waitFor(t, "second turn", func() bool {
		cur := g.currentForTest()
		return cur != nil && cur != first
	})
	second := g.currentForTest()

	// Somebody else's acknowledgement is ignored.
	other := first.User.ID
	g.Acknowledge(other)
	time.Sleep(50 * time.Millisecond)
	if g.currentForTest() != second {
		t.Fatalf("foreign ack advanced the turn")
	}

	// Reaction-style acknowledgement from the holder works.
	g.Acknowledge(second.User.ID)
	waitFor(t, "third turn", func() bool {
		cur := g.currentForTest()
		return cur != nil && cur != second
	})
}

func TestScheduledEliminationAndMurdererWin(t *testing.T) {
	g, e := newTestGame(t, 2, Config{RoundsPerDeath: 1})
	ctx := context.Background()
	if err := g.Start(ctx, user("author")); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// With two players one innocent remains; the first scheduled death
	// after RoundsPerDeath*2 turns ends the game in the murderer's favour.
	for i := 0; i < 2; i++ {
		waitFor(t, "turn", func() bool { return g.currentForTest() != nil })
		cur := g.currentForTest()
		g.Acknowledge(cur.User.ID)
		waitFor(t, "turn consumed", func() bool {
			return g.Finished() || g.currentForTest() != cur
		})
	}
	waitFor(t, "murderer win", g.Finished)
	if !strings.Contains(e.sender.allTexts(), "killer.murderer_wins") {
		t.Fatalf("missing win announcement: %v", e.sender.allTexts())
	}
	if !strings.Contains(e.sender.allTexts(), "killer.death") {
		t.Fatalf("missing death announcement")
	}
	if e.bc.Locks.Locked(g.Key) {
		t.Fatalf("finished game must release the lock")
	}
	if !e.removed {
		t.Fatalf("finished game must deregister")
	}
}

func TestEndInvestigationStopsTurns(t *testing.T) {
	g, e := newTestGame(t, 3, Config{})
	ctx := context.Background()
	if err := g.Start(ctx, user("author")); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := g.EndInvestigation(user("p1")); err != ErrNotAuthor {
		t.Fatalf("non-author end: %v", err)
	}
	if err := g.EndInvestigation(user("author")); err != nil {
		t.Fatalf("end: %v", err)
	}
	waitFor(t, "investigation over notice", func() bool {
		return strings.Contains(e.sender.allTexts(), "killer.investigation_over")
	})
	if g.Finished() {
		t.Fatalf("ending the investigation must not finish the game")
	}
	if !e.bc.Locks.Locked(g.Key) {
		t.Fatalf("accusation phase keeps the lock")
	}
	g.Cancel(ctx, user("author")) //nolint:errcheck
}
