package store

import (
	"context"
	"os"
	"testing"
	"time"

	"sevens-bot/server/agent"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("SEVENS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SEVENS_TEST_DATABASE_URL not set")
	}
	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close(context.Background()) })
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestInsertAndRecentDecisions(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	kind, number, passes := "D", 6, 3
	id, err := db.InsertDecision(ctx, Decision{
		RequestID:   "test-req",
		CardsInPlay: []agent.WireCard{{Number: 7, Kind: "D"}},
		Hand:        []agent.WireCard{{Number: 6, Kind: "D"}, {Number: 8, Kind: "D"}},
		PassesLeft:  &passes,
		Kind:        &kind,
		Number:      &number,
		Playable:    2,
	})
	if err != nil {
		t.Fatalf("InsertDecision: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}

	passID, err := db.InsertDecision(ctx, Decision{Pass: true, Kind: &kind})
	if err != nil {
		t.Fatalf("InsertDecision(pass): %v", err)
	}

	got, err := db.RecentDecisions(ctx, 500)
	if err != nil {
		t.Fatalf("RecentDecisions: %v", err)
	}
	byID := map[string]Decision{}
	for _, d := range got {
		byID[d.ID] = d
	}
	d, ok := byID[id]
	if !ok {
		t.Fatalf("decision %s not returned", id)
	}
	if d.Kind == nil || *d.Kind != "D" || d.Number == nil || *d.Number != 6 || d.Playable != 2 {
		t.Fatalf("unexpected decision: %+v", d)
	}
	if len(d.Hand) != 2 || d.Hand[1].Number != 8 {
		t.Fatalf("unexpected hand: %+v", d.Hand)
	}
	p, ok := byID[passID]
	if !ok {
		t.Fatalf("pass decision %s not returned", passID)
	}
	if !p.Pass || p.Kind != nil || p.Number != nil || len(p.CardsInPlay) != 0 {
		t.Fatalf("unexpected pass decision: %+v", p)
	}
}
