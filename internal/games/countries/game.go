package countries

import (
	"github.com/david-campos/discord-bot-sub000/internal/bot"
	"github.com/david-campos/discord-bot-sub000/internal/guessing"
)

const embedColor = 0x2e86c1

type item struct {
	c Country
}

func (it item) Key() string { return it.c.Code }

func pool() []guessing.Item {
	out := make([]guessing.Item, len(table))
	for i, c := range table {
		out[i] = item{c: c}
	}
	return out
}

// FlagsGame: shown a flag, guess the country.
type FlagsGame struct{}

func (FlagsGame) Name() string          { return "flags" }
func (FlagsGame) Pool() []guessing.Item { return pool() }

func (FlagsGame) Solution(it guessing.Item) string {
	return it.(item).c.Name
}

func (FlagsGame) Prompt(it guessing.Item) *bot.Embed {
	return &bot.Embed{
		Title:       "Whose flag is this?",
		Description: it.(item).c.Flag,
		Color:       embedColor,
	}
}

// CapitalsGame: shown a country, guess its capital.
type CapitalsGame struct{}

func (CapitalsGame) Name() string          { return "capitals" }
func (CapitalsGame) Pool() []guessing.Item { return pool() }

func (CapitalsGame) Solution(it guessing.Item) string {
	return it.(item).c.Capital
}

func (CapitalsGame) Prompt(it guessing.Item) *bot.Embed {
	c := it.(item).c
	return &bot.Embed{
		Title:       "What is the capital of " + c.Name + "?",
		Description: c.Flag,
		Color:       embedColor,
	}
}

// CountriesGame: shown a capital, guess the country.
type CountriesGame struct{}

func (CountriesGame) Name() string          { return "countries" }
func (CountriesGame) Pool() []guessing.Item { return pool() }

func (CountriesGame) Solution(it guessing.Item) string {
	return it.(item).c.Name
}

func (CountriesGame) Prompt(it guessing.Item) *bot.Embed {
	return &bot.Embed{
		Title: "Which country has " + it.(item).c.Capital + " as its capital?",
		Color: embedColor,
	}
}
