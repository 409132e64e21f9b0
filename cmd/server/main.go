package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/civitoken/server/internal/api"
	"github.com/civitoken/server/internal/config"
	"github.com/civitoken/server/internal/repository"
	"github.com/civitoken/server/internal/seed"
	"github.com/civitoken/server/internal/service"
	"github.com/civitoken/server/internal/utils"
)

func main() {
	// Load .env if present, then configuration from the environment
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	utils.SetupLogger(cfg.Log.Level, cfg.Log.Pretty)

	// Set up the in-memory database; state is lost on restart
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up database")
	}
	defer db.Close()

	// Create repository
	repo := repository.NewSQLiteRepository(db)

	// Seed demo data
	if err := seed.Run(context.Background(), repo); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed demo data")
	}

	// Create service
	anonNames := service.NewAnonNamer(rand.New(rand.NewSource(time.Now().UnixNano())))
	svc := service.NewDefaultService(repo, anonNames, seed.DemoResidentEmail)

	// Create API handler
	handler := api.NewHandler(svc)

	// Set up Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(), api.CORS())

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", serverAddr).Msg("Starting API server")
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
