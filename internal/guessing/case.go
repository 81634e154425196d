package guessing

import (
	"math/rand"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const maskRune = '◾'

// Case is one active challenge: an item, its canonical solution and the
// guess/hint bookkeeping. Once Guessed is set the case is frozen.
type Case struct {
	ID        string
	Item      Item
	Solution  string
	Attempts  int
	Hints     int
	CreatedAt time.Time

	LastHintAt time.Time
	hintMsgID  string

	Guessed bool

	revealed map[int]struct{}
	runes    []rune
}

func newCase(it Item, solution string, now time.Time) *Case {
	return &Case{
		ID:        uuid.NewString(),
		Item:      it,
		Solution:  solution,
		CreatedAt: now,
		revealed:  make(map[int]struct{}),
		runes:     []rune(solution),
	}
}

// maskable returns the positions that hints can reveal: letters and digits.
// Everything else is always visible and never counts as a revealed pick.
func (c *Case) maskable() []int {
	out := make([]int, 0, len(c.runes))
	for i, r := range c.runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, i)
		}
	}
	return out
}

// Unrevealed returns the maskable positions not yet revealed, sorted.
func (c *Case) Unrevealed() []int {
	var out []int
	for _, i := range c.maskable() {
		if _, ok := c.revealed[i]; !ok {
			out = append(out, i)
		}
	}
	return out
}

// Revealed returns the revealed positions, sorted, for inspection.
func (c *Case) Revealed() []int {
	out := make([]int, 0, len(c.revealed))
	for i := range c.revealed {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// RevealBatch picks a random batch of not-yet-revealed positions and adds
// them to the revealed set. Batch size is unrevealed/(5+rand*5), rounded,
// at least 1 and at most the remaining count. Returns how many were
// revealed (0 when nothing is left).
func (c *Case) RevealBatch(rng *rand.Rand) int {
	left := c.Unrevealed()
	if len(left) == 0 {
		return 0
	}
	n := int(float64(len(left))/(5+rng.Float64()*5) + 0.5)
	if n < 1 {
		n = 1
	}
	if n > len(left) {
		n = len(left)
	}
	rng.Shuffle(len(left), func(i, j int) { left[i], left[j] = left[j], left[i] })
	for _, i := range left[:n] {
		c.revealed[i] = struct{}{}
	}
	c.Hints++
	return n
}

// Masked renders the solution with unrevealed letters and digits replaced
// by a placeholder; separators and punctuation stay visible.
func (c *Case) Masked() string {
	var b strings.Builder
	for i, r := range c.runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if _, ok := c.revealed[i]; ok {
			b.WriteRune(r)
		} else {
			b.WriteRune(maskRune)
		}
	}
	return b.String()
}
