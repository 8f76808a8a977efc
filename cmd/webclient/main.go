package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/zvtnav/zvt-navigator/internal/clientstore"
	"github.com/zvtnav/zvt-navigator/internal/gate"
	"github.com/zvtnav/zvt-navigator/internal/notify"
	"github.com/zvtnav/zvt-navigator/internal/scoringapi"
	"github.com/zvtnav/zvt-navigator/internal/telemetry"
	"github.com/zvtnav/zvt-navigator/internal/webapp"
)

type config struct {
	Addr            string `env:"ZVT_ADDR" envDefault:":8090"`
	BackendURL      string `env:"ZVT_BACKEND_URL" envDefault:"https://amnogtest.onrender.com"`
	DBPath          string `env:"ZVT_DB_PATH" envDefault:"./data/clientstate.db"`
	WebDir          string `env:"ZVT_WEB_DIR"`
	ConsentRequired bool   `env:"ZVT_CONSENT_REQUIRED" envDefault:"true"`

	NotifyAPIKey string `env:"ZVT_NOTIFY_API_KEY"`
	NotifyFrom   string `env:"ZVT_NOTIFY_FROM" envDefault:"zVT Navigator <onboarding@resend.dev>"`
	NotifyTo     string `env:"ZVT_NOTIFY_TO"`
}

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse env: %v", err)
	}

	var (
		addr    = flag.String("addr", cfg.Addr, "Listen address")
		backend = flag.String("backend-url", cfg.BackendURL, "Scoring backend base URL")
		dbPath  = flag.String("db-path", cfg.DBPath, "Path to the client state database")
		webDir  = flag.String("web-dir", cfg.WebDir, "Directory containing web UI files (default: web/ relative to binary)")
	)
	flag.Parse()

	web := *webDir
	if web == "" {
		exe, _ := os.Executable()
		web = filepath.Join(filepath.Dir(exe), "..", "..", "web")
		if _, err := os.Stat(web); err != nil {
			web = "web"
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, "zvt-navigator-webclient")
	if err != nil {
		log.Printf("warning: tracing setup failed: %v", err)
	} else {
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				log.Printf("warning: tracing shutdown failed: %v", err)
			}
		}()
	}

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	store, err := clientstore.Open(*dbPath)
	if err != nil {
		log.Fatalf("open client store: %v", err)
	}
	defer store.Close()

	client := scoringapi.NewClient(*backend)
	relay := notify.NewRelay(cfg.NotifyAPIKey, cfg.NotifyFrom, cfg.NotifyTo)

	handler := webapp.NewServer(client, relay, store, gate.Config{ConsentRequired: cfg.ConsentRequired}, web)

	log.Printf("webclient listening on %s (backend=%s)", *addr, *backend)
	srv := &http.Server{Addr: *addr, Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
}
