package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/pageza/feedback-api/backend/config"
	"github.com/pageza/feedback-api/backend/internal/database"
	"github.com/pageza/feedback-api/backend/internal/logging"
)

func main() {
	reset := flag.Bool("reset", false, "Drop the feedback table and enum type before creating them")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init("feedback-migrate", cfg.Environment, cfg.LogLevel)

	db, err := database.New(cfg, logging.NewGormLogger(log.Logger, cfg.DBLogSQL))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	if *reset {
		if err := database.Reset(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset schema")
		}
		log.Info().Str("driver", cfg.DBDriver).Msg("Schema dropped and recreated")
		return
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate schema")
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("Schema is up to date")
}
