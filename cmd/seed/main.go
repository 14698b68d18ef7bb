package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/bag_shop/internal/config"
	"github.com/Skotchmaster/bag_shop/internal/db"
	"github.com/Skotchmaster/bag_shop/internal/logging"
	"github.com/Skotchmaster/bag_shop/internal/search"
	"github.com/Skotchmaster/bag_shop/internal/seed"
)

func main() {
	file := flag.String("file", "", "seed YAML file; the embedded sample data when empty")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "cmd", "seed")

	data, err := load(*file)
	if err != nil {
		log.Fatalf("load seed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	res, err := seed.Run(ctx, gdb, data)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	logger.Info("seed_completed", "users", res.Users, "bags", res.Bags)

	if cfg.ESURL != "" {
		es, err := search.NewClient(search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUsername,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			log.Fatalf("search client: %v", err)
		}
		n, err := seed.Reindex(ctx, gdb, &search.Index{ES: es, Name: cfg.ESIndex})
		if err != nil {
			log.Fatalf("reindex: %v", err)
		}
		logger.Info("search_reindexed", "index", cfg.ESIndex, "bags", n)
	}

	logUsers(logger, data.Users, *file == "")
}

// logUsers lists the seeded accounts. Passwords are only shown for the
// embedded sample data, and only at debug level.
func logUsers(logger *slog.Logger, users []seed.User, sample bool) {
	for _, u := range users {
		if sample {
			logger.Debug("seed_credentials", "role", u.Role, "email", u.Email, "password", u.Password)
			continue
		}
		logger.Info("seed_user", "role", u.Role, "email", u.Email)
	}
}

func load(path string) (*seed.Data, error) {
	if path == "" {
		return seed.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(raw)
}
