// Package chessduel hosts a two-player chess game inside a channel. While
// a duel runs the channel is locked and every message from the player to
// move is tried as a move, UCI first and SAN as fallback.
package chessduel

import (
	"context"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"go.uber.org/zap"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
	"github.com/david-campos/discord-bot-sub000/internal/obslog"
)

const embedColor = 0x7f8c8d

var (
	ErrDuelActive   = errf("a duel is already running in this channel")
	ErrNoChallenge  = errf("there is no open challenge")
	ErrSelfPlay     = errf("you cannot duel yourself")
	ErrNotChallenge = errf("the challenge is not for you")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }

// Duel is one channel's chess session: first an open challenge, then an
// active game holding the channel lock.
type Duel struct {
	bot.ChannelSession
	removeFn func()

	mu         sync.Mutex
	white      bot.User
	black      bot.User
	challenged string // who the challenge is addressed to, "" for open
	active     bool
	finished   bool
	game       *nchess.Game
	resignWord string
}

// New opens a challenge lobby; the creator plays white.
func New(msg *bot.Message, bc *bot.Context, key string, removeFn func()) *Duel {
	return &Duel{
		ChannelSession: bot.NewChannelSession(msg, bc, key),
		removeFn:       removeFn,
		white:          msg.Author,
		resignWord:     "resign",
	}
}

// Challenge restricts who may accept, by user id or display name; empty
// means anyone.
func (d *Duel) Challenge(who string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.challenged = who
}

func matchesUser(who string, u bot.User) bool {
	return who == u.ID || strings.EqualFold(who, u.Name)
}

// Accept starts the game with u as black and locks the channel.
func (d *Duel) Accept(ctx context.Context, u bot.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.finished || d.active:
		return ErrDuelActive
	case u.ID == d.white.ID:
		return ErrSelfPlay
	case d.challenged != "" && !matchesUser(d.challenged, u):
		return ErrNotChallenge
	}
	if err := d.LockChannel(d.handleMessage); err != nil {
		return err
	}
	d.black = u
	d.active = true
	d.game = nchess.NewGame()
	d.Bot.Say(ctx, d.Channel, "chess.started", map[string]any{
		"White":  d.white.DisplayName(),
		"Black":  d.black.DisplayName(),
		"Resign": d.resignWord,
	})
	d.sendBoardLocked(ctx)
	obslog.L().Info("duel_start",
		zap.String("channel", d.Key),
		zap.String("white", d.white.ID),
		zap.String("black", d.black.ID),
	)
	return nil
}

// Cancel tears down an unaccepted challenge; either player may concede an
// active game with the resign word instead.
func (d *Duel) Cancel(u bot.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active {
		return ErrDuelActive
	}
	if u.ID != d.white.ID {
		return ErrNotChallenge
	}
	d.finishLocked()
	return nil
}

// Active reports whether the board is live.
func (d *Duel) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active && !d.finished
}

func (d *Duel) toMoveLocked() bot.User {
	if d.game.Position().Turn() == nchess.White {
		return d.white
	}
	return d.black
}

func (d *Duel) handleMessage(ctx context.Context, msg *bot.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active || d.finished {
		if d.finished {
			d.UnlockChannel()
		}
		return
	}
	isPlayer := msg.Author.ID == d.white.ID || msg.Author.ID == d.black.ID
	if !isPlayer {
		return
	}
	text := strings.TrimSpace(msg.Content)
	if strings.EqualFold(text, d.resignWord) {
		winner := d.white
		if msg.Author.ID == d.white.ID {
			winner = d.black
		}
		d.Bot.Say(ctx, d.Channel, "chess.resigned", map[string]any{
			"Loser":  msg.Author.DisplayName(),
			"Winner": winner.DisplayName(),
		})
		d.finishLocked()
		return
	}
	if msg.Author.ID != d.toMoveLocked().ID {
		return
	}
	if !d.applyMoveLocked(text) {
		if looksLikeMove(text) {
			d.Bot.Say(ctx, d.Channel, "chess.illegal_move", map[string]any{
				"User": msg.Author.DisplayName(),
			})
		}
		return
	}
	d.afterMoveLocked(ctx)
}

// applyMoveLocked tries the text as UCI first, SAN second.
func (d *Duel) applyMoveLocked(text string) bool {
	pos := d.game.Position()
	if mv, err := (nchess.UCINotation{}).Decode(pos, strings.ToLower(text)); err == nil {
		return d.game.Move(mv, nil) == nil
	}
	return d.game.PushNotationMove(text, nchess.AlgebraicNotation{}, nil) == nil
}

// looksLikeMove filters table talk from failed move attempts: short
// tokens made of board coordinates and piece letters.
func looksLikeMove(text string) bool {
	if len(text) < 2 || len(text) > 7 || strings.ContainsAny(text, " \t") {
		return false
	}
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'h', r >= '1' && r <= '8':
		case strings.ContainsRune("KQRBNOx=+#-oqrbn", r):
		default:
			return false
		}
	}
	return true
}

func (d *Duel) afterMoveLocked(ctx context.Context) {
	d.sendBoardLocked(ctx)
	switch d.game.Outcome() {
	case nchess.WhiteWon:
		d.Bot.Say(ctx, d.Channel, "chess.won", map[string]any{"Winner": d.white.DisplayName()})
		d.finishLocked()
	case nchess.BlackWon:
		d.Bot.Say(ctx, d.Channel, "chess.won", map[string]any{"Winner": d.black.DisplayName()})
		d.finishLocked()
	case nchess.Draw:
		d.Bot.Say(ctx, d.Channel, "chess.draw", nil)
		d.finishLocked()
	}
}

func (d *Duel) sendBoardLocked(ctx context.Context) {
	e := &bot.Embed{
		Title: d.Bot.Text("chess.board_title", map[string]any{
			"ToMove": d.toMoveLocked().DisplayName(),
		}),
		Description: renderBoard(d.game.Position().Board()),
		Footer:      d.game.FEN(),
		Color:       embedColor,
	}
	_, _ = d.Bot.Sender.SendEmbed(ctx, d.Channel, e)
}

// finishLocked releases the channel if held and deregisters the session.
func (d *Duel) finishLocked() {
	if d.finished {
		return
	}
	d.finished = true
	if d.active {
		d.UnlockChannel()
	}
	if d.removeFn != nil {
		d.removeFn()
	}
	obslog.L().Info("duel_finish", zap.String("channel", d.Key))
}
