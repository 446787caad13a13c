package agent

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"sevens-bot/server/engine"
)

func decode(t *testing.T, body string) ProgressRequest {
	t.Helper()
	var req ProgressRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return req
}

func TestParse(t *testing.T) {
	req := decode(t, `{
		"cardsInPlay": [{"number": 7, "kind": "D"}, {"number": 8, "kind": "D"}],
		"me": {"pass": 3, "cards": [{"number": 6, "kind": "D"}, {"number": 5, "kind": "S"}]},
		"history": [{"playerId": 1, "card": {"number": 8, "kind": "D"}, "pass": false}],
		"players": [{"id": 1, "pass": 3, "cards": 12, "isGameOver": false, "isGameClear": false}]
	}`)
	table, hand, err := Parse(req)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := engine.CardsString(table); got != "D7 D8" {
		t.Fatalf("unexpected table: %q", got)
	}
	if got := engine.CardsString(hand); got != "D6 S5" {
		t.Fatalf("unexpected hand: %q", got)
	}
}

func TestParseEmptyCollections(t *testing.T) {
	table, hand, err := Parse(decode(t, `{"cardsInPlay": [], "me": {"cards": []}}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(table) != 0 || len(hand) != 0 {
		t.Fatalf("expected empty table and hand, got %v / %v", table, hand)
	}
}

func TestParseReportsEveryField(t *testing.T) {
	req := decode(t, `{
		"cardsInPlay": [{"number": 7, "kind": "D"}, {"number": 14, "kind": "D"}, {"number": 3, "kind": "X"}],
		"me": {"pass": -1, "cards": [{"number": 0, "kind": "H"}, {"number": 4, "kind": ""}]}
	}`)
	_, _, err := Parse(req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	wantPrefixes := []string{"cardsInPlay[1]", "cardsInPlay[2]", "me.cards[0]", "me.cards[1]", "me.pass"}
	if len(verr.Fields) != len(wantPrefixes) {
		t.Fatalf("expected %d field errors, got %+v", len(wantPrefixes), verr.Fields)
	}
	for i, p := range wantPrefixes {
		if !strings.HasPrefix(verr.Fields[i], p) {
			t.Fatalf("field %d: expected prefix %q, got %q", i, p, verr.Fields[i])
		}
	}
}

func TestParseRequiresMe(t *testing.T) {
	_, _, err := Parse(decode(t, `{"cardsInPlay": []}`))
	if err == nil || !strings.Contains(err.Error(), "me: required") {
		t.Fatalf("expected missing me error, got %v", err)
	}
}

func TestFromDecisionWireShape(t *testing.T) {
	tests := []struct {
		d    engine.Decision
		want string
	}{
		{engine.Decision{Pass: true}, `{"pass":true}`},
		{engine.Decision{Suit: engine.Diamonds, Number: 6}, `{"pass":false,"kind":"D","number":6}`},
	}
	for _, tt := range tests {
		b, err := json.Marshal(FromDecision(tt.d))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(b) != tt.want {
			t.Fatalf("unexpected body for %v: %s", tt.d, b)
		}
	}
}
