package killer

import (
	"context"
	"strings"
	"testing"
)

// startedGame returns a running 3-player game plus the murderer and the
// two innocents.
func startedGame(t *testing.T) (*Game, *killerEnv, *Player, []*Player) {
	t.Helper()
	g, e := newTestGame(t, 3, Config{})
	if err := g.Start(context.Background(), user("author")); err != nil {
		t.Fatalf("Start: %v", err)
	}
	m := g.murdererForTest()
	var innocents []*Player
	for _, p := range g.Players() {
		if p != m {
			innocents = append(innocents, p)
		}
	}
	return g, e, m, innocents
}

func correctAccusation(g *Game, m *Player) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return "it was @" + m.User.Name + " in the " + m.Room.Name + " with the " + m.Weapons[g.weaponIdx].Name
}

func TestCorrectAccusationWins(t *testing.T) {
	g, e, m, innocents := startedGame(t)
	ctx := context.Background()

	e.bc.Locks.Dispatch(ctx, msgFrom(innocents[0].User.ID, correctAccusation(g, m)))

	if !g.Finished() {
		t.Fatalf("exact accusation must end the game")
	}
	if !strings.Contains(e.sender.allTexts(), "killer.accuse_correct") {
		t.Fatalf("missing win message: %v", e.sender.allTexts())
	}
	if e.sender.embedCount() == 0 {
		t.Fatalf("solution embed not revealed")
	}
	if e.bc.Locks.Locked(g.Key) || !e.removed {
		t.Fatalf("win must unlock and deregister")
	}
}

func TestAccusationByWeaponIndex(t *testing.T) {
	g, e, m, innocents := startedGame(t)
	ctx := context.Background()

	g.mu.Lock()
	idx := g.weaponIdx + 1
	room := m.Room.Symbol
	g.mu.Unlock()
	text := "@" + m.User.Name + " " + room + " weapon " + string(rune('0'+idx))
	e.bc.Locks.Dispatch(ctx, msgFrom(innocents[0].User.ID, text))

	if !g.Finished() {
		t.Fatalf("room symbol + 1-based weapon index must be accepted: %q", text)
	}
}

func TestBareNumberIsNotAWeaponIndex(t *testing.T) {
	g, e, m, innocents := startedGame(t)
	ctx := context.Background()

	g.mu.Lock()
	room := m.Room.Name
	g.mu.Unlock()
	// Mention and room are present but the digit is table talk.
	e.bc.Locks.Dispatch(ctx, msgFrom(innocents[0].User.ID, "@"+m.User.Name+" "+room+" we met at 2"))

	if g.Finished() || !innocents[0].Alive {
		t.Fatalf("a stray digit must not complete an accusation")
	}
	if !strings.Contains(e.sender.allTexts(), "killer.accuse_unrecognized") {
		t.Fatalf("mention plus room without a weapon should be called out")
	}
	g.Cancel(ctx, user("author")) //nolint:errcheck
}

func TestWeaponIndexCues(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"in the study with 2", 1},
		{"in the study weapon 3", 2},
		{"in the study #1", 0},
		{"we met at 2 in the study", -1},
		{"weapon 9", -1},
		{"2", -1},
	}
	for _, c := range cases {
		if got := weaponIndexIn(c.text); got != c.want {
			t.Errorf("weaponIndexIn(%q) = %d, want %d", c.text, got, c.want)
		}
	}
}

func TestMentionMatchingIsTokenExact(t *testing.T) {
	if !mentionsUser("it was @p10 in the kitchen", "p10") {
		t.Fatalf("exact mention not recognised")
	}
	if mentionsUser("it was @p10 in the kitchen", "p1") {
		t.Fatalf("a prefix of a longer name must not count as a mention")
	}
	if !mentionsUser("surely @Ana!", "ana") {
		t.Fatalf("trailing punctuation must not hide a mention")
	}
	if mentionsUser("mail ana@example.com", "example.com") {
		t.Fatalf("mid-word @ is not a mention")
	}
}

func TestWrongAccusationEliminatesAccuser(t *testing.T) {
	g, e, m, innocents := startedGame(t)
	ctx := context.Background()
	accuser, scapegoat := innocents[0], innocents[1]

	// Well-formed but wrong: the accused is innocent.
	g.mu.Lock()
	room := scapegoat.Room.Name
	weapon := scapegoat.Weapons[0].Name
	g.mu.Unlock()
	e.bc.Locks.Dispatch(ctx, msgFrom(accuser.User.ID, "@"+scapegoat.User.Name+" "+room+" "+weapon))

	if accuser.Alive {
		t.Fatalf("wrong accuser must be eliminated")
	}
	if g.Finished() {
		t.Fatalf("two players still alive, game must continue")
	}
	if !strings.Contains(e.sender.allTexts(), "killer.accuse_wrong") {
		t.Fatalf("missing penalty message")
	}

	// The last innocent also guesses wrong: the murderer wins.
	g.mu.Lock()
	mRoom := m.Room.Name
	wrongIdx := (g.weaponIdx + 1) % WeaponsPerPlayer
	mWeapon := m.Weapons[wrongIdx].Name
	g.mu.Unlock()
	e.bc.Locks.Dispatch(ctx, msgFrom(scapegoat.User.ID, "@"+m.User.Name+" "+mRoom+" "+mWeapon))

	if !g.Finished() {
		t.Fatalf("murderer should win with one survivor left")
	}
	if !strings.Contains(e.sender.allTexts(), "killer.murderer_wins") {
		t.Fatalf("missing murderer win message")
	}
}

func TestMurdererCannotAccuse(t *testing.T) {
	g, e, m, innocents := startedGame(t)
	ctx := context.Background()

	g.mu.Lock()
	room := innocents[0].Room.Name
	weapon := innocents[0].Weapons[0].Name
	g.mu.Unlock()
	e.bc.Locks.Dispatch(ctx, msgFrom(m.User.ID, "@"+innocents[0].User.Name+" "+room+" "+weapon))

	if g.Finished() || !innocents[0].Alive {
		t.Fatalf("murderer accusations must be ignored")
	}
	g.Cancel(ctx, user("author")) //nolint:errcheck
}

func TestMalformedAccusationUnrecognized(t *testing.T) {
	g, e, m, innocents := startedGame(t)
	ctx := context.Background()

	// A mention with no room or weapon is acknowledged as unreadable.
	e.bc.Locks.Dispatch(ctx, msgFrom(innocents[0].User.ID, "I think it was @"+m.User.Name+"!"))
	if !strings.Contains(e.sender.allTexts(), "killer.accuse_unrecognized") {
		t.Fatalf("missing unrecognized notice")
	}
	if !innocents[0].Alive || g.Finished() {
		t.Fatalf("malformed accusation must have no effect")
	}

	// Plain chatter without a mention stays silent.
	before := e.sender.allTexts()
	e.bc.Locks.Dispatch(ctx, msgFrom(innocents[0].User.ID, "the library looks suspicious"))
	if after := e.sender.allTexts(); strings.Count(after, "killer.accuse_unrecognized") != strings.Count(before, "killer.accuse_unrecognized") {
		t.Fatalf("chatter without mention must be ignored")
	}
	g.Cancel(ctx, user("author")) //nolint:errcheck
}
