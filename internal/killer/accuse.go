package killer

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
	"github.com/david-campos/discord-bot-sub000/internal/obslog"
)

// accusation is one fully parsed charge: who, where and with which of the
// accused's three weapons.
type accusation struct {
	accused   *Player
	room      Room
	weaponIdx int
}

// handleMessage is the exclusive reception handler while the game holds
// the channel. It routes turn acknowledgements and accusations; anything
// else is table talk and ignored.
func (g *Game) handleMessage(ctx context.Context, msg *bot.Message) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started || g.finished {
		if g.finished {
			g.UnlockChannel()
		}
		return
	}
	p := g.playerLocked(msg.Author.ID)
	if p == nil || !p.Alive {
		return
	}
	text := strings.TrimSpace(msg.Content)
	if strings.EqualFold(text, g.cfg.AckWord) {
		if g.current == p {
			g.Acknowledge(p.User.ID)
		}
		return
	}
	// The murderer deceives in chat but cannot accuse.
	if p == g.murderer {
		return
	}
	acc, ok := g.parseAccusationLocked(text, p)
	if !ok {
		if g.mentionsSomeoneLocked(text, p) {
			g.Bot.Say(ctx, g.Channel, "killer.accuse_unrecognized", map[string]any{
				"User": p.User.DisplayName(),
			})
		}
		return
	}
	g.resolveAccusationLocked(ctx, p, acc)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// mentionsUser reports whether text carries a standalone "@name" token for
// the given name, trailing punctuation aside. Token equality keeps "@ana"
// from matching inside "@anatole".
func mentionsUser(text, name string) bool {
	for _, tok := range strings.Fields(text) {
		if !strings.HasPrefix(tok, "@") {
			continue
		}
		tok = strings.TrimRight(tok[1:], ".,!?:;\"')")
		if strings.EqualFold(tok, name) {
			return true
		}
	}
	return false
}

func (g *Game) mentionsSomeoneLocked(text string, accuser *Player) bool {
	for _, p := range g.players {
		if p != accuser && mentionsUser(text, p.User.Name) {
			return true
		}
	}
	return false
}

// parseAccusationLocked recognises a well-formed accusation: a mention of
// exactly one other player, a room cited by symbol or name, and one of the
// accused's weapons cited by symbol, name or 1-based index.
func (g *Game) parseAccusationLocked(text string, accuser *Player) (accusation, bool) {
	var acc accusation
	mentions := 0
	for _, p := range g.players {
		if p != accuser && mentionsUser(text, p.User.Name) {
			acc.accused = p
			mentions++
		}
	}
	if mentions != 1 {
		return acc, false
	}

	roomFound := false
	for _, r := range rooms {
		if strings.Contains(text, r.Symbol) || containsFold(text, r.Name) {
			acc.room = r
			roomFound = true
			break
		}
	}
	if !roomFound {
		return acc, false
	}

	acc.weaponIdx = -1
	for i, w := range acc.accused.Weapons {
		if strings.Contains(text, w.Symbol) || containsFold(text, w.Name) {
			acc.weaponIdx = i
			break
		}
	}
	if acc.weaponIdx < 0 {
		acc.weaponIdx = weaponIndexIn(text)
	}
	if acc.weaponIdx < 0 {
		return acc, false
	}
	return acc, true
}

// weaponIndexIn extracts a 1-based weapon choice from the text, returning
// the 0-based index or -1. A number only counts next to a weapon cue
// ("weapon 2", "with 2", "#2") so an incidental digit in table talk never
// completes an accusation.
func weaponIndexIn(text string) int {
	toks := strings.Fields(text)
	for i, tok := range toks {
		n, err := strconv.Atoi(strings.TrimPrefix(tok, "#"))
		if err != nil || n < 1 || n > WeaponsPerPlayer {
			continue
		}
		cued := strings.HasPrefix(tok, "#")
		if !cued && i > 0 {
			prev := strings.ToLower(toks[i-1])
			cued = prev == "weapon" || prev == "with"
		}
		if cued {
			return n - 1
		}
	}
	return -1
}

// resolveAccusationLocked settles a well-formed accusation: an exact match
// of murderer, room and weapon wins for the innocents; any other charge
// eliminates the accuser.
func (g *Game) resolveAccusationLocked(ctx context.Context, accuser *Player, acc accusation) {
	hit := acc.accused == g.murderer &&
		acc.room.Name == g.murderer.Room.Name &&
		acc.weaponIdx == g.weaponIdx
	obslog.L().Info("killer_accusation",
		zap.String("channel", g.Key),
		zap.String("accuser", accuser.User.ID),
		zap.String("accused", acc.accused.User.ID),
		zap.Bool("hit", hit),
	)
	if hit {
		g.Bot.Say(ctx, g.Channel, "killer.accuse_correct", map[string]any{
			"User":    accuser.User.DisplayName(),
			"Accused": acc.accused.User.DisplayName(),
		})
		_, _ = g.Bot.Sender.SendEmbed(ctx, g.Channel, g.solutionEmbed())
		g.finishLocked()
		return
	}

	accuser.Alive = false
	g.Bot.Say(ctx, g.Channel, "killer.accuse_wrong", map[string]any{
		"User":    accuser.User.DisplayName(),
		"Accused": acc.accused.User.DisplayName(),
	})
	g.loseTurnLocked(accuser)
	if g.aliveLocked() < 2 {
		g.murdererWinsLocked(ctx)
	}
}
