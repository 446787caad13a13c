package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"sevens-bot/server/store"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()
	log := newLogger(cfg)

	var migrate, repl bool
	for _, a := range os.Args[1:] {
		switch a {
		case "--migrate":
			migrate = true
		case "--repl":
			repl = true
		}
	}

	if repl {
		if err := runREPL(log); err != nil {
			log.Fatalf("console: %v", err)
		}
		return
	}

	if migrate {
		if err := runMigrate(context.Background(), cfg); err != nil {
			log.Fatal(err)
		}
		log.Info("migrated")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, log); err != nil {
		log.Fatal(err)
	}
}

var errNoDatabaseURL = errors.New("missing required env var DATABASE_URL. Put it in .env (dev) or set it on the host (prod)")

// runMigrate applies the schema and closes the pool before returning.
func runMigrate(ctx context.Context, cfg Config) error {
	if cfg.DatabaseURL == "" {
		return errNoDatabaseURL
	}
	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close(ctx)
	return store.Migrate(ctx, db)
}

// serve runs the HTTP server until ctx is done, then drains it.
func serve(ctx context.Context, cfg Config, log *logrus.Logger) error {
	var db decisionStore
	if cfg.DatabaseURL != "" {
		p, err := openStore(ctx, cfg, log)
		if err != nil {
			log.WithError(err).Warn("decision log disabled")
		} else {
			defer p.Close(context.Background())
			db = p
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      Router(log, db, cfg.CORSOrigin),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		log.Infof("listening on http://localhost:%s/ (Ctrl+C to stop)", cfg.Port)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	sctx, cancel := withTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func openStore(ctx context.Context, cfg Config, log *logrus.Logger) (*store.DB, error) {
	p, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	pctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Ping(pctx); err != nil {
		// The pool reconnects on its own; start anyway and let /api/health report it.
		log.WithError(err).Warn("database not reachable yet")
	}
	if cfg.AutoMigrate {
		if err := store.Migrate(pctx, p); err != nil {
			p.Close(context.Background())
			return nil, err
		}
		log.Info("migrated")
	}
	return p, nil
}
