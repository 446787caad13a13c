package store

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"sevens-bot/server/agent"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

// Decision is one answered /progress call.
type Decision struct {
	ID          string           `json:"id"`
	RequestID   string           `json:"request_id"`
	CreatedAt   time.Time        `json:"created_at"`
	CardsInPlay []agent.WireCard `json:"cardsInPlay"`
	Hand        []agent.WireCard `json:"hand"`
	PassesLeft  *int             `json:"passes_left"`
	Pass        bool             `json:"pass"`
	Kind        *string          `json:"kind"`
	Number      *int             `json:"number"`
	Playable    int              `json:"playable"`
}

// InsertDecision stores d and returns its id (generated when d.ID is empty).
func (db *DB) InsertDecision(ctx context.Context, d Decision) (string, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	table, err := marshalCards(d.CardsInPlay)
	if err != nil {
		return "", err
	}
	hand, err := marshalCards(d.Hand)
	if err != nil {
		return "", err
	}
	var passes, kind, number any
	if d.PassesLeft != nil {
		passes = *d.PassesLeft
	}
	if !d.Pass {
		if d.Kind != nil {
			kind = *d.Kind
		}
		if d.Number != nil {
			number = *d.Number
		}
	}
	_, err = db.Exec(ctx, `
        INSERT INTO decisions(
            id, request_id, cards_in_play, hand,
            passes_left, pass, kind, number, playable
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `, d.ID, d.RequestID, table, hand, passes, d.Pass, kind, number, d.Playable)
	if err != nil {
		return "", fmt.Errorf("insert decision: %w", err)
	}
	return d.ID, nil
}

// RecentDecisions returns up to limit decisions, newest first.
func (db *DB) RecentDecisions(ctx context.Context, limit int) ([]Decision, error) {
	rows, err := db.Query(ctx, `
        SELECT id, request_id, created_at, cards_in_play, hand,
               passes_left, pass, kind, number, playable
          FROM decisions
         ORDER BY created_at DESC, id
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Decision{}
	for rows.Next() {
		var d Decision
		var table, hand []byte
		if err := rows.Scan(&d.ID, &d.RequestID, &d.CreatedAt, &table, &hand,
			&d.PassesLeft, &d.Pass, &d.Kind, &d.Number, &d.Playable); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(table, &d.CardsInPlay); err != nil {
			return nil, fmt.Errorf("decision %s: cards_in_play: %w", d.ID, err)
		}
		if err := json.Unmarshal(hand, &d.Hand); err != nil {
			return nil, fmt.Errorf("decision %s: hand: %w", d.ID, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// jsonb params go over the wire as text so an empty slice stays "[]".
func marshalCards(cs []agent.WireCard) (string, error) {
	if cs == nil {
		cs = []agent.WireCard{}
	}
	b, err := json.Marshal(cs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
