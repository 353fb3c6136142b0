package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/dineguide/dineguide/service"
)

func main() {
	// Optional .env for local runs; real environment variables win.
	_ = godotenv.Load()

	if err := service.Run(); err != nil {
		log.Error().Err(err).Msg("dineguide-service exited with error")
		os.Exit(1)
	}
}
