package killer

import (
	"math/rand"
	"time"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
)

// WeaponsPerPlayer is how many weapons every player carries. The murderer
// used exactly one of their own three.
const WeaponsPerPlayer = 3

// MinPlayers is the smallest roster a game can start with.
const MinPlayers = 2

// Weapon is a named weapon with the emoji players cite it by.
type Weapon struct {
	Name   string
	Symbol string
}

// Room is a named location with the emoji players cite it by.
type Room struct {
	Name   string
	Symbol string
}

var weapons = []Weapon{
	{"knife", "🔪"},
	{"revolver", "🔫"},
	{"rope", "🪢"},
	{"candlestick", "🕯️"},
	{"wrench", "🔧"},
	{"hammer", "🔨"},
	{"axe", "🪓"},
	{"poison", "🧪"},
	{"syringe", "💉"},
	{"scissors", "✂️"},
	{"pan", "🍳"},
	{"bat", "🏏"},
	{"dumbbell", "🏋️"},
	{"trophy", "🏆"},
	{"bottle", "🍾"},
	{"guitar", "🎸"},
	{"pillow", "🛏️"},
	{"shovel", "🪣"},
	{"chainsaw", "🪚"},
	{"crowbar", "🧰"},
	{"dagger", "🗡️"},
	{"bow", "🏹"},
	{"boomerang", "🪃"},
	{"brick", "🧱"},
}

var rooms = []Room{
	{"kitchen", "🍽️"},
	{"library", "📚"},
	{"ballroom", "💃"},
	{"study", "🖋️"},
	{"conservatory", "🌿"},
	{"billiard room", "🎱"},
	{"dining room", "🍷"},
	{"cellar", "🕸️"},
}

var methods = []string{
	"a blow to the back of the head",
	"a silent strike in the dark",
	"an ambush behind the curtains",
	"a slow and careful poisoning",
	"a shove down the stairs followed by the coup de grâce",
	"a trap sprung at midnight",
}

var victims = []string{
	"the butler",
	"the old countess",
	"the family notary",
	"the gardener",
	"the visiting professor",
}

// Weapons returns the full weapon table.
func Weapons() []Weapon { return weapons }

// Rooms returns the full room table.
func Rooms() []Room { return rooms }

// Capacity is the largest roster the static tables can supply: one room
// per player and three distinct weapons per player.
func Capacity() int {
	c := len(weapons) / WeaponsPerPlayer
	if len(rooms) < c {
		c = len(rooms)
	}
	return c
}

// Player is one roster entry plus the secrets dealt at start.
type Player struct {
	User    bot.User
	Room    Room
	Weapons []Weapon
	Alive   bool
}

// Config tunes the pacing of a game. Zero values fall back to defaults
// suitable for production; tests inject their own.
type Config struct {
	// RoundsPerDeath: every RoundsPerDeath*playerCount turns a random
	// innocent dies.
	RoundsPerDeath int
	// TurnWindow is how long the turn loop waits for an acknowledgement
	// before reminding the current player and waiting again.
	TurnWindow time.Duration
	// AckWord ends the current player's turn when sent as a message.
	AckWord string
	Rand    *rand.Rand
}

func (c Config) withDefaults() Config {
	if c.RoundsPerDeath <= 0 {
		c.RoundsPerDeath = 2
	}
	if c.TurnWindow <= 0 {
		c.TurnWindow = time.Minute
	}
	if c.AckWord == "" {
		c.AckWord = "done"
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}
