package engine

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	poker "github.com/paulhankin/poker"
)

// NewDeck returns the 52 cards shuffled with seed (0 means time-based).
func NewDeck(seed int64) []Card {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	deck := make([]Card, 0, len(Suits)*MaxNumber)
	for _, s := range Suits {
		for n := MinNumber; n <= MaxNumber; n++ {
			deck = append(deck, Card{Number: n, Suit: s})
		}
	}
	for i := len(deck) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

func (c Card) String() string {
	return fmt.Sprintf("%c%d", c.Suit, c.Number)
}

// Validate checks that c is a real card. SelectMove assumes every card it
// receives has passed this check.
func (c Card) Validate() error {
	var s poker.Suit
	switch c.Suit {
	case Clubs:
		s = poker.Club
	case Diamonds:
		s = poker.Diamond
	case Hearts:
		s = poker.Heart
	case Spades:
		s = poker.Spade
	default:
		return fmt.Errorf("unknown suit %q", string(c.Suit))
	}
	// MakeCard indexes its prime table with r-1 and does not guard r < 0.
	if c.Number < 0 {
		return fmt.Errorf("number %d out of range [%d, %d]", c.Number, MinNumber, MaxNumber)
	}
	// Library ranks are 1..13 with Ace=1, the same space Sevens uses, so
	// MakeCard rejects 0 and anything above King.
	if _, err := poker.MakeCard(s, poker.Rank(c.Number)); err != nil {
		return fmt.Errorf("card %s: number out of range [%d, %d]: %w", c, MinNumber, MaxNumber, err)
	}
	return nil
}

// ParseCard reads the "<suit><number>" form produced by String, e.g. "D7"
// or "h10".
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("bad card %q", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil {
		return Card{}, fmt.Errorf("bad card %q: number must be 1..13", s)
	}
	c := Card{Number: n, Suit: Suit(s[0])}
	if err := c.Validate(); err != nil {
		return Card{}, fmt.Errorf("bad card %q: %w", s, err)
	}
	return c, nil
}

func ParseCards(fields []string) ([]Card, error) {
	out := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func CardsString(cs []Card) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
