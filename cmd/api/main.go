package main

import (
	"os"

	"github.com/emblabrowall/donosti-guide/internal/pkg/logger"
	"github.com/emblabrowall/donosti-guide/internal/server"
)

// @title Donosti Exchange Guide API
// @version 1.0
// @description Community guide for exchange students in Donostia-San Sebastián: tips, forum, calendar and leaderboard.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// setup functions log their own details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// blocks until shutdown
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
