package guessing

import (
	"github.com/david-campos/discord-bot-sub000/internal/bot"
)

// Item is one entry of a game's possibility pool.
type Item interface {
	// Key is a stable identifier used for score records.
	Key() string
}

// Game is the contract a concrete guessing game implements. Every method
// is required at compile time; there is no partially-implemented game.
type Game interface {
	// Name is the command-facing name, e.g. "flags".
	Name() string
	// Pool returns the full possibility pool. The engine copies it before
	// mutating run-local pools.
	Pool() []Item
	// Solution is the canonical answer string for an item.
	Solution(it Item) string
	// Prompt presents a fresh case for an item.
	Prompt(it Item) *bot.Embed
}
