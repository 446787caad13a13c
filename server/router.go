package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"sevens-bot/server/agent"
	"sevens-bot/server/engine"
	"sevens-bot/server/store"
)

// embed the /web directory so the API docs and the docs page ship in the binary
//
//go:embed web/*
var webFS embed.FS

const maxBodyBytes = 1 << 20

// decisionStore is the part of *store.DB the handlers use. A nil store
// turns the audit log off.
type decisionStore interface {
	Ping(ctx context.Context) error
	InsertDecision(ctx context.Context, d store.Decision) (string, error)
	RecentDecisions(ctx context.Context, limit int) ([]store.Decision, error)
}

type server struct {
	log *logrus.Logger
	db  decisionStore
}

func Router(log *logrus.Logger, db decisionStore, corsOrigin string) http.Handler {
	s := &server{log: log, db: db}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors(corsOrigin))

	// Static files under /web/ and root redirect to the docs page
	sub, _ := fs.Sub(webFS, "web")
	r.Handle("/web/*", http.StripPrefix("/web/", http.FileServer(http.FS(sub))))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/web/", http.StatusFound)
	})
	r.Get("/api-docs.json", func(w http.ResponseWriter, r *http.Request) {
		b, err := fs.ReadFile(sub, "api-docs.json")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
	})

	// Liveness: callers treat anything but 200 as fatal.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/api/health", s.health)

	r.Post("/progress", s.progress)
	r.Get("/api/decisions", s.decisions)

	return r
}

func (s *server) progress(w http.ResponseWriter, r *http.Request) {
	var req agent.ProgressRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body: "+err.Error(), nil)
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "malformed JSON body: unexpected data after JSON value", nil)
		return
	}
	entry := s.log.WithField("request_id", middleware.GetReqID(r.Context()))
	entry.WithField("body", req).Debug("progress request")

	table, hand, err := agent.Parse(req)
	if err != nil {
		var verr *agent.ValidationError
		if errors.As(err, &verr) {
			entry.WithField("fields", verr.Fields).Info("rejected progress request")
			writeError(w, http.StatusUnprocessableEntity, "invalid request", verr.Fields)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	entry.WithField("ranges", engine.Ranges(table)).Debug("available ranges")
	playable := engine.Playable(table, hand)
	d := engine.SelectMove(table, hand)
	if d.Pass {
		entry.WithField("playable", 0).Info("pass")
	} else {
		entry.WithFields(logrus.Fields{"kind": d.Suit.String(), "number": d.Number, "playable": len(playable)}).Info("play")
	}

	s.record(r.Context(), entry, req, d, len(playable))
	writeJSON(w, agent.FromDecision(d))
}

// record writes the decision to the audit log. Failures are logged only;
// the response never depends on the store.
func (s *server) record(ctx context.Context, entry *logrus.Entry, req agent.ProgressRequest, d engine.Decision, playable int) {
	if s.db == nil {
		return
	}
	row := store.Decision{
		RequestID:   middleware.GetReqID(ctx),
		CardsInPlay: req.CardsInPlay,
		Pass:        d.Pass,
		Playable:    playable,
	}
	if req.Me != nil {
		row.Hand = req.Me.Cards
		row.PassesLeft = req.Me.Pass
	}
	if !d.Pass {
		kind, number := d.Suit.String(), d.Number
		row.Kind, row.Number = &kind, &number
	}
	ctx, cancel := withTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	id, err := s.db.InsertDecision(ctx, row)
	if err != nil {
		entry.WithError(err).Warn("decision not recorded")
		return
	}
	entry.WithField("decision_id", id).Debug("decision recorded")
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	state := "disabled"
	if s.db != nil {
		ctx, cancel := withTimeout(r.Context(), time.Second)
		defer cancel()
		state = "up"
		if err := s.db.Ping(ctx); err != nil {
			s.log.WithError(err).Warn("db ping failed")
			state = "down"
		}
	}
	writeJSON(w, map[string]any{"ok": true, "db": state})
}

func (s *server) decisions(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "decision log disabled (DATABASE_URL not set)", nil)
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad limit", nil)
			return
		}
		limit = min(n, 500)
	}
	rows, err := s.db.RecentDecisions(r.Context(), limit)
	if err != nil {
		s.log.WithError(err).Error("recent decisions")
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	writeJSON(w, map[string]any{"rows": rows})
}

func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
			}).Debug("http")
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, fields []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"error": msg}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	_ = json.NewEncoder(w).Encode(body)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}
