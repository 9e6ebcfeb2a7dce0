package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/appointra/scheduler/internal/config"
	dbpkg "github.com/appointra/scheduler/internal/db"
	"github.com/appointra/scheduler/internal/infra/reservation"
	"github.com/appointra/scheduler/internal/logging"
	"github.com/appointra/scheduler/internal/middleware"
	"github.com/appointra/scheduler/internal/routes"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	db, err := dbpkg.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database setup failed")
	}

	rdb := reservation.NewRedisClient(cfg)

	r := gin.Default()
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.Register(r, db, rdb, cfg, log)

	log.Info().Str("addr", cfg.Addr()).Msg("server listening")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
