package engine

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseCard(t *testing.T) {
	tests := []struct {
		in   string
		want Card
	}{
		{"D7", Card{Number: 7, Suit: Diamonds}},
		{"h10", Card{Number: 10, Suit: Hearts}},
		{" S1 ", Card{Number: 1, Suit: Spades}},
		{"C13", Card{Number: 13, Suit: Clubs}},
	}
	for _, tt := range tests {
		got, err := ParseCard(tt.in)
		if err != nil {
			t.Fatalf("ParseCard(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCard(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if s := got.String(); s != tt.want.String() {
			t.Fatalf("unexpected String(): %q", s)
		}
	}
}

func TestParseCardRejects(t *testing.T) {
	for _, in := range []string{"", "D", "X7", "D0", "D14", "Dx", "7D", "D-1"} {
		if _, err := ParseCard(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := (Card{Number: 13, Suit: Hearts}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Card{Number: 0, Suit: Hearts}).Validate(); err == nil {
		t.Fatalf("expected error for number 0")
	}
	if err := (Card{Number: 5, Suit: 'X'}).Validate(); err == nil {
		t.Fatalf("expected error for suit X")
	}
}

func TestValidateRanks(t *testing.T) {
	t.Run("every rank of every suit is accepted", func(t *testing.T) {
		for _, s := range Suits {
			for n := MinNumber; n <= MaxNumber; n++ {
				if err := (Card{Number: n, Suit: s}).Validate(); err != nil {
					t.Fatalf("%c%d: unexpected error: %v", s, n, err)
				}
			}
		}
	})

	t.Run("numbers outside ace to king are rejected", func(t *testing.T) {
		// 269 is 13 modulo 256.
		for _, n := range []int{0, 14, -1, 269} {
			err := (Card{Number: n, Suit: Spades}).Validate()
			if err == nil {
				t.Fatalf("expected error for number %d", n)
			}
			if !strings.Contains(err.Error(), "out of range") {
				t.Fatalf("number %d: unexpected error %q", n, err)
			}
		}
	})
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck(42)
	if len(deck) != 52 {
		t.Fatalf("expected 52 cards, got %d", len(deck))
	}
	seen := map[Card]bool{}
	for _, c := range deck {
		if err := c.Validate(); err != nil {
			t.Fatalf("invalid card in deck: %v", err)
		}
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
	again := NewDeck(42)
	for i := range deck {
		if deck[i] != again[i] {
			t.Fatalf("same seed produced different decks at %d", i)
		}
	}
}

func TestSuitRangeJSON(t *testing.T) {
	b, err := json.Marshal(SuitRange{Suit: Diamonds, Low: 6, High: 8})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"kind":"D","low":6,"high":8}` {
		t.Fatalf("unexpected JSON: %s", b)
	}
}
