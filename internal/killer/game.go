package killer

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
	"github.com/david-campos/discord-bot-sub000/internal/obslog"
)

const embedColor = 0x8e44ad

// Game is one social-deduction session bound to a channel. It lives
// through three phases: an open lobby, the investigation driven by the
// turn loop, and a terminal finished state. All mutation happens under mu;
// the turn loop goroutine coordinates with message handlers through ackCh,
// advanceCh and endCh.
type Game struct {
	bot.ChannelSession
	cfg      Config
	removeFn func()

	mu       sync.Mutex
	author   bot.User
	players  []*Player
	started  bool
	finished bool

	murderer  *Player
	weaponIdx int
	method    string
	victim    string

	turn      int // total turns elapsed since start
	current   *Player
	ackCh     chan string
	advanceCh chan struct{}
	endCh     chan struct{}
	endOnce   sync.Once
}

// New creates a lobby with the message author as first member. removeFn
// deregisters the session from its manager and runs exactly once, when the
// game reaches the finished state.
func New(msg *bot.Message, bc *bot.Context, key string, cfg Config, removeFn func()) *Game {
	g := &Game{
		ChannelSession: bot.NewChannelSession(msg, bc, key),
		cfg:            cfg.withDefaults(),
		removeFn:       removeFn,
		author:         msg.Author,
		ackCh:          make(chan string, 8),
		endCh:          make(chan struct{}),
	}
	g.players = []*Player{{User: msg.Author, Alive: true}}
	return g
}

// Author returns the user who opened the lobby.
func (g *Game) Author() bot.User {
	return g.author
}

// Players returns a snapshot of the roster.
func (g *Game) Players() []*Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Player(nil), g.players...)
}

// Started reports whether the investigation has begun.
func (g *Game) Started() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.started
}

// Finished reports whether the game reached a terminal state.
func (g *Game) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.finished
}

func (g *Game) playerLocked(userID string) *Player {
	for _, p := range g.players {
		if p.User.ID == userID {
			return p
		}
	}
	return nil
}

func (g *Game) aliveLocked() int {
	n := 0
	for _, p := range g.players {
		if p.Alive {
			n++
		}
	}
	return n
}

// Join adds a user to the lobby.
func (g *Game) Join(u bot.User) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case g.finished:
		return ErrFinished
	case g.started:
		return ErrAlreadyStarted
	case g.playerLocked(u.ID) != nil:
		return ErrAlreadyJoined
	case len(g.players) >= Capacity():
		return ErrRosterFull
	}
	g.players = append(g.players, &Player{User: u, Alive: true})
	return nil
}

// Leave removes a user from the lobby. The author cannot leave; they
// cancel the game instead.
func (g *Game) Leave(u bot.User) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case g.finished:
		return ErrFinished
	case g.started:
		return ErrAlreadyStarted
	case u.ID == g.author.ID:
		return ErrAuthorLeave
	}
	for i, p := range g.players {
		if p.User.ID == u.ID {
			g.players = append(g.players[:i], g.players[i+1:]...)
			return nil
		}
	}
	return ErrNotInGame
}

// Start deals the secrets, briefs everyone in private, locks the channel
// for the investigation and launches the turn loop. Author only.
func (g *Game) Start(ctx context.Context, u bot.User) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case g.finished:
		return ErrFinished
	case g.started:
		return ErrAlreadyStarted
	case u.ID != g.author.ID:
		return ErrNotAuthor
	case len(g.players) < MinPlayers:
		return ErrNotEnoughPlayers
	}

	g.dealLocked()
	if err := g.LockChannel(g.handleMessage); err != nil {
		return err
	}
	g.started = true
	g.briefLocked(ctx)
	g.Bot.Say(ctx, g.Channel, "killer.started", map[string]any{
		"Victim":  g.victim,
		"Players": len(g.players),
		"Ack":     g.cfg.AckWord,
	})
	obslog.L().Info("killer_start",
		zap.String("channel", g.Key),
		zap.Int("players", len(g.players)),
		zap.String("author", g.author.ID),
	)
	go g.runTurns(context.Background())
	return nil
}

// dealLocked assigns disjoint rooms and weapon hands from shuffled copies
// of the static tables and picks the crime.
func (g *Game) dealLocked() {
	rng := g.cfg.Rand
	ws := append([]Weapon(nil), weapons...)
	rng.Shuffle(len(ws), func(i, j int) { ws[i], ws[j] = ws[j], ws[i] })
	rs := append([]Room(nil), rooms...)
	rng.Shuffle(len(rs), func(i, j int) { rs[i], rs[j] = rs[j], rs[i] })

	for i, p := range g.players {
		p.Room = rs[i]
		p.Weapons = append([]Weapon(nil), ws[i*WeaponsPerPlayer:(i+1)*WeaponsPerPlayer]...)
	}
	g.murderer = g.players[rng.Intn(len(g.players))]
	g.weaponIdx = rng.Intn(WeaponsPerPlayer)
	g.method = methods[rng.Intn(len(methods))]
	g.victim = victims[rng.Intn(len(victims))]
}

// briefLocked sends every player their private hand and the murderer the
// details of the crime.
func (g *Game) briefLocked(ctx context.Context) {
	for _, p := range g.players {
		hand := make([]string, len(p.Weapons))
		for i, w := range p.Weapons {
			hand[i] = w.Symbol + " " + w.Name
		}
		key := "killer.brief_innocent"
		data := map[string]any{
			"Room":       p.Room.Symbol + " " + p.Room.Name,
			"Weapons":    strings.Join(hand, ", "),
			"Victim":     g.victim,
			"WeaponsPer": WeaponsPerPlayer,
		}
		if p == g.murderer {
			key = "killer.brief_murderer"
			data["Weapon"] = p.Weapons[g.weaponIdx].Symbol + " " + p.Weapons[g.weaponIdx].Name
			data["Method"] = g.method
		}
		if err := g.Bot.Sender.SendPrivate(ctx, p.User.ID, g.Bot.Text(key, data)); err != nil {
			obslog.L().Warn("killer_brief_failed",
				zap.String("channel", g.Key),
				zap.String("user", p.User.ID),
				zap.Error(err),
			)
		}
	}
}

// Cancel tears the game down with no winner. Author only.
func (g *Game) Cancel(ctx context.Context, u bot.User) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished {
		return ErrFinished
	}
	if u.ID != g.author.ID {
		return ErrNotAuthor
	}
	g.Bot.Say(ctx, g.Channel, "killer.cancelled", nil)
	g.finishLocked()
	return nil
}

// EndInvestigation stops the turn loop so no further turns or scheduled
// eliminations happen; the channel stays locked and accusations still
// resolve the game. Author only, after start.
func (g *Game) EndInvestigation(u bot.User) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case g.finished:
		return ErrFinished
	case !g.started:
		return ErrNotStarted
	case u.ID != g.author.ID:
		return ErrNotAuthor
	}
	g.endOnce.Do(func() { close(g.endCh) })
	return nil
}

// Acknowledge records a turn acknowledgement from a user, typically a
// reaction on the turn announcement. Ignored when it is not their turn.
func (g *Game) Acknowledge(userID string) {
	select {
	case g.ackCh <- userID:
	default:
	}
}

// finishLocked flips the game to its terminal state, releases the channel
// and deregisters the session. Idempotent.
func (g *Game) finishLocked() {
	if g.finished {
		return
	}
	g.finished = true
	g.endOnce.Do(func() { close(g.endCh) })
	if g.started {
		g.UnlockChannel()
	}
	if g.removeFn != nil {
		g.removeFn()
	}
	obslog.L().Info("killer_finish",
		zap.String("channel", g.Key),
		zap.Int("turns", g.turn),
	)
}

// solutionEmbed reveals the full crime.
func (g *Game) solutionEmbed() *bot.Embed {
	w := g.murderer.Weapons[g.weaponIdx]
	return &bot.Embed{
		Title: g.Bot.Text("killer.solution_title", map[string]any{"Victim": g.victim}),
		Description: g.Bot.Text("killer.solution_body", map[string]any{
			"Murderer": g.murderer.User.DisplayName(),
			"Weapon":   w.Symbol + " " + w.Name,
			"Room":     g.murderer.Room.Symbol + " " + g.murderer.Room.Name,
			"Method":   g.method,
		}),
		Color: embedColor,
	}
}
