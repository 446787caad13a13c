package engine

type Suit byte

const (
	Diamonds Suit = 'D'
	Spades   Suit = 'S'
	Clubs    Suit = 'C'
	Hearts   Suit = 'H'
)

// Suits in wire order.
var Suits = [4]Suit{Diamonds, Spades, Clubs, Hearts}

func (s Suit) Valid() bool {
	switch s {
	case Diamonds, Spades, Clubs, Hearts:
		return true
	}
	return false
}

func (s Suit) String() string { return string(s) }

func (s Suit) MarshalText() ([]byte, error) { return []byte{byte(s)}, nil }

const (
	MinNumber = 1
	MaxNumber = 13
	// Base is the rank every suit starts from.
	Base = 7
)

type Card struct {
	Number int
	Suit   Suit
} // e.g. "H10" => number 10, suit 'H'

// SuitRange holds the next free slot below and above the run of one suit.
type SuitRange struct {
	Suit Suit `json:"kind"`
	Low  int  `json:"low"`
	High int  `json:"high"`
}

// Fits reports whether c lands on one of the two open ends of r.
func (r SuitRange) Fits(c Card) bool {
	return c.Suit == r.Suit && (c.Number == r.Low || c.Number == r.High)
}

type Decision struct {
	Pass   bool
	Suit   Suit
	Number int
}

func (d Decision) Card() Card { return Card{Number: d.Number, Suit: d.Suit} }

func (d Decision) String() string {
	if d.Pass {
		return "pass"
	}
	return d.Card().String()
}
