package killer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/david-campos/discord-bot-sub000/internal/obslog"
)

// runTurns drives the investigation in its own goroutine. Each iteration
// announces the next alive player's turn and then blocks on a channel
// select until that player acknowledges, the player loses the turn, the
// author ends the investigation or the context dies. Time only shows up as
// a repeating reminder window, never as polling.
func (g *Game) runTurns(ctx context.Context) {
	for {
		g.mu.Lock()
		if g.finished {
			g.mu.Unlock()
			return
		}
		if g.dueDeathLocked() {
			g.eliminateRandomLocked(ctx)
			if g.finished {
				g.mu.Unlock()
				return
			}
		}
		g.advanceTurnLocked()
		cur := g.current
		advance := g.advanceCh
		g.drainAcksLocked()
		g.Bot.Say(ctx, g.Channel, "killer.turn", map[string]any{
			"User": cur.User.DisplayName(),
			"Room": cur.Room.Symbol + " " + cur.Room.Name,
			"Ack":  g.cfg.AckWord,
		})
		g.mu.Unlock()

	wait:
		for {
			select {
			case uid := <-g.ackCh:
				if uid == cur.User.ID {
					break wait
				}
			case <-advance:
				break wait
			case <-g.endCh:
				g.mu.Lock()
				if !g.finished {
					g.Bot.Say(ctx, g.Channel, "killer.investigation_over", nil)
				}
				g.mu.Unlock()
				return
			case <-time.After(g.cfg.TurnWindow):
				g.mu.Lock()
				if g.finished {
					g.mu.Unlock()
					return
				}
				if !cur.Alive {
					// The turn holder died while the loop was between
					// selects and the advance signal was dropped.
					g.mu.Unlock()
					break wait
				}
				g.Bot.Say(ctx, g.Channel, "killer.turn_reminder", map[string]any{
					"User": cur.User.DisplayName(),
					"Ack":  g.cfg.AckWord,
				})
				g.mu.Unlock()
			case <-ctx.Done():
				return
			}
		}

		g.mu.Lock()
		g.turn++
		g.mu.Unlock()
	}
}

// dueDeathLocked reports whether a scheduled elimination precedes the
// next turn announcement.
func (g *Game) dueDeathLocked() bool {
	k := g.cfg.RoundsPerDeath * len(g.players)
	return g.turn > 0 && g.turn%k == 0
}

// advanceTurnLocked moves current to the next alive player in roster
// order, replacing its per-turn advance channel.
func (g *Game) advanceTurnLocked() {
	start := 0
	if g.current != nil {
		for i, p := range g.players {
			if p == g.current {
				start = i + 1
				break
			}
		}
	}
	for off := 0; off < len(g.players); off++ {
		p := g.players[(start+off)%len(g.players)]
		if p.Alive {
			g.current = p
			break
		}
	}
	g.advanceCh = make(chan struct{})
}

// drainAcksLocked discards acknowledgements left over from earlier turns.
func (g *Game) drainAcksLocked() {
	for {
		select {
		case <-g.ackCh:
		default:
			return
		}
	}
}

// loseTurnLocked wakes the loop when the player holding the turn was just
// eliminated.
func (g *Game) loseTurnLocked(p *Player) {
	if g.current == p && g.advanceCh != nil {
		select {
		case g.advanceCh <- struct{}{}:
		default:
		}
	}
}

// eliminateRandomLocked kills one random alive innocent and announces it.
// Fewer than two survivors hands the win to the murderer.
func (g *Game) eliminateRandomLocked(ctx context.Context) {
	var candidates []*Player
	for _, p := range g.players {
		if p.Alive && p != g.murderer {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		g.murdererWinsLocked(ctx)
		return
	}
	dead := candidates[g.cfg.Rand.Intn(len(candidates))]
	dead.Alive = false
	g.Bot.Say(ctx, g.Channel, "killer.death", map[string]any{
		"User":   dead.User.DisplayName(),
		"Method": g.method,
	})
	obslog.L().Info("killer_death",
		zap.String("channel", g.Key),
		zap.String("user", dead.User.ID),
		zap.Int("alive", g.aliveLocked()),
	)
	g.loseTurnLocked(dead)
	if g.aliveLocked() < 2 {
		g.murdererWinsLocked(ctx)
	}
}

// murdererWinsLocked ends the game in the murderer's favour and reveals
// the crime.
func (g *Game) murdererWinsLocked(ctx context.Context) {
	g.Bot.Say(ctx, g.Channel, "killer.murderer_wins", map[string]any{
		"User": g.murderer.User.DisplayName(),
	})
	_, _ = g.Bot.Sender.SendEmbed(ctx, g.Channel, g.solutionEmbed())
	g.finishLocked()
}
