package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Port            string
	DatabaseURL     string
	AutoMigrate     bool
	LogLevel        logrus.Level
	LogJSON         bool
	CORSOrigin      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// loadConfig reads the process environment. Call godotenv.Load first so a
// .env file can fill in anything unset.
func loadConfig() Config {
	level, err := logrus.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	return Config{
		Port:            getenv("PORT", "8080"),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AutoMigrate:     asBool(os.Getenv("AUTO_MIGRATE")),
		LogLevel:        level,
		LogJSON:         strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "json"),
		CORSOrigin:      getenv("CORS_ORIGIN", "*"),
		ReadTimeout:     seconds(atoiDef(os.Getenv("READ_TIMEOUT_SECONDS"), 15)),
		WriteTimeout:    seconds(atoiDef(os.Getenv("WRITE_TIMEOUT_SECONDS"), 15)),
		ShutdownTimeout: seconds(atoiDef(os.Getenv("SHUTDOWN_SECONDS"), 10)),
	}
}

func newLogger(cfg Config) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(cfg.LogLevel)
	if cfg.LogJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000000"})
	}
	return log
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return def
	}
	return n
}
func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
