package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"proflow/internal/config"
	"proflow/internal/database"
	"proflow/internal/server"
)

func main() {
	cfg := config.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.Connect(cfg.DBDSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}
	if err := database.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword, log); err != nil {
		log.Fatal().Err(err).Msg("admin seeding failed")
	}

	r := server.NewRouter(cfg, db, log)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Info().Str("addr", addr).Msg("starting server")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
