package main

import (
	"os"

	"github.com/akarpenko/studyflow/internal/pkg/logger"
	"github.com/akarpenko/studyflow/internal/server"
)

// @title StudyFlow API
// @version 1.0
// @description API for the StudyFlow course hierarchy backend

// @host localhost:8080
// @BasePath /api/v1
// @schemes http

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Static API key protecting mutating endpoints

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal arrives.
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
