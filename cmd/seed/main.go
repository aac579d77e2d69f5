// Command seed loads the member roster from a CSV file.
//
//	seed -file members.csv
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/chama/internal/config"
	"github.com/MrJamesThe3rd/chama/internal/database"
	chamaLog "github.com/MrJamesThe3rd/chama/internal/log"
	"github.com/MrJamesThe3rd/chama/internal/roster"
	rosterStore "github.com/MrJamesThe3rd/chama/internal/roster/store"
)

func main() {
	path := flag.String("file", "members.csv", "roster CSV with firstName, lastName, position and phoneNumber columns")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := chamaLog.Component(
		chamaLog.New(os.Stderr, chamaLog.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}),
		chamaLog.ComponentRoster,
	)

	f, err := os.Open(*path)
	if err != nil {
		logger.Error("failed to open roster", "file", *path, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	if cfg.DB.Migrate {
		mdb, err := database.New(cfg.ConnectionString(), 1)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}

		if err := database.Migrate(mdb); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.New(cfg.ConnectionString(), 2)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	result, err := roster.NewService(rosterStore.New(db)).Import(context.Background(), f)
	if err != nil {
		logger.Error("failed to import roster", "file", *path, "error", err)
		os.Exit(1)
	}

	for _, rowErr := range result.Invalid {
		logger.Warn("skipping roster row", "row", rowErr.Row, "reason", rowErr.Reason)
	}

	logger.Info("roster imported",
		"file", *path,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"invalid", len(result.Invalid),
	)
}
