package agent

import (
	"fmt"
	"strings"

	"sevens-bot/server/engine"
)

type WireCard struct {
	Number int    `json:"number"` // 1..13
	Kind   string `json:"kind"`   // D|S|C|H
}

type Me struct {
	Cards []WireCard `json:"cards"`
	Pass  *int       `json:"pass,omitempty"` // passes left
}

type PlayHistory struct {
	PlayerID int       `json:"playerId"`
	Card     *WireCard `json:"card,omitempty"`
	Pass     bool      `json:"pass"`
}

type PlayerInfo struct {
	ID          int  `json:"id"`
	Pass        int  `json:"pass"`
	Cards       int  `json:"cards"`
	IsGameOver  bool `json:"isGameOver"`
	IsGameClear bool `json:"isGameClear"`
}

// ProgressRequest is the body of POST /progress. History and Players are
// decoded but not used when picking a card.
type ProgressRequest struct {
	CardsInPlay []WireCard    `json:"cardsInPlay"`
	Me          *Me           `json:"me"`
	History     []PlayHistory `json:"history,omitempty"`
	Players     []PlayerInfo  `json:"players,omitempty"`
}

type ProgressResponse struct {
	Pass   bool   `json:"pass"`
	Kind   string `json:"kind,omitempty"`
	Number int    `json:"number,omitempty"`
}

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Fields, "; ")
}

func (e *ValidationError) add(format string, args ...any) {
	e.Fields = append(e.Fields, fmt.Sprintf(format, args...))
}

// Parse maps the request onto engine cards, reporting every bad field.
func Parse(req ProgressRequest) (table, hand []engine.Card, err error) {
	verr := &ValidationError{}
	table = toCards(verr, "cardsInPlay", req.CardsInPlay)
	if req.Me == nil {
		verr.add("me: required")
	} else {
		hand = toCards(verr, "me.cards", req.Me.Cards)
		if req.Me.Pass != nil && *req.Me.Pass < 0 {
			verr.add("me.pass: must not be negative, got %d", *req.Me.Pass)
		}
	}
	if len(verr.Fields) > 0 {
		return nil, nil, verr
	}
	return table, hand, nil
}

func toCards(verr *ValidationError, path string, ws []WireCard) []engine.Card {
	out := make([]engine.Card, 0, len(ws))
	for i, w := range ws {
		c, err := w.Card()
		if err != nil {
			verr.add("%s[%d]: %v", path, i, err)
			continue
		}
		out = append(out, c)
	}
	return out
}

func (w WireCard) Card() (engine.Card, error) {
	if len(w.Kind) != 1 {
		return engine.Card{}, fmt.Errorf("kind %q must be one of D, S, C, H", w.Kind)
	}
	c := engine.Card{Number: w.Number, Suit: engine.Suit(w.Kind[0])}
	if err := c.Validate(); err != nil {
		return engine.Card{}, err
	}
	return c, nil
}

func FromCard(c engine.Card) WireCard {
	return WireCard{Number: c.Number, Kind: c.Suit.String()}
}

func FromCards(cs []engine.Card) []WireCard {
	out := make([]WireCard, len(cs))
	for i, c := range cs {
		out[i] = FromCard(c)
	}
	return out
}

func FromDecision(d engine.Decision) ProgressResponse {
	if d.Pass {
		return ProgressResponse{Pass: true}
	}
	return ProgressResponse{Kind: d.Suit.String(), Number: d.Number}
}
