// Command migrate creates or updates the MySQL schema and seeds the
// default taxonomy. Run it once before starting the API with the mysql
// storage driver.
package main

import (
	"flag"
	"os"

	"github.com/dvloznov/finbot/internal/config"
	"github.com/dvloznov/finbot/internal/logger"
	"github.com/dvloznov/finbot/internal/storage"
)

func main() {
	var (
		configPath = flag.String("config", os.Getenv("FINBOT_CONFIG"), "Path to finbot.yaml (or set FINBOT_CONFIG env)")
		dsn        = flag.String("dsn", "", "MySQL DSN, overrides the config")
	)
	flag.Parse()

	log := logger.New()

	target := *dsn
	if target == "" {
		if *configPath == "" {
			log.Fatal().Msg("Either -dsn or -config is required")
		}
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load config")
		}
		if cfg.Storage.Driver != "mysql" {
			log.Fatal().Str("driver", cfg.Storage.Driver).Msg("Config does not use the mysql driver")
		}
		target = cfg.Storage.DSN
	}

	if _, err := storage.Open(target); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	log.Info().Msg("Schema is up to date")
}
