package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/veritas-study/veritas/internal/config"
	"github.com/veritas-study/veritas/internal/session"
	"github.com/veritas-study/veritas/internal/store"
	"github.com/veritas-study/veritas/internal/sync"
	"github.com/veritas-study/veritas/internal/web"
)

func main() {
	flags := pflag.NewFlagSet("veritas", pflag.ExitOnError)
	configPath := flags.String("config", "veritas.yaml", "Path to the YAML config file")
	flags.String("listen", "", "HTTP listen address")
	flags.String("database", "", "Path to the SQLite database file")
	flags.String("cache_dir", "", "Directory for mirrored deck repositories")
	flags.StringSlice("decks", nil, "Deck sources: local directories or git URLs")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	cat, err := sync.Refresh(cfg.Decks, cfg.CacheDir)
	if err != nil {
		log.Fatalf("Failed to load card catalog: %v", err)
	}
	if len(cat.Cards) == 0 {
		slog.Warn("catalog is empty; add deck sources with --decks")
	}

	srv, err := web.NewServer(db, cat, session.NewBuilder(nil), cfg.User.ID, cfg.User.Name)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	slog.Info("veritas listening", "addr", cfg.Listen, "cards", len(cat.Cards), "user", cfg.User.ID)
	log.Fatal(http.ListenAndServe(cfg.Listen, srv))
}
