package api

import (
	"travel-time-service/internal/api/handlers"
	"travel-time-service/internal/ports"
	"travel-time-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	processor *services.BatchProcessor,
	store ports.BatchStore,
	defaults services.BatchOptions,
	logger *zap.Logger,
) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(loggingMiddleware(logger))

	batchHandler := &handlers.BatchHandler{
		Processor: processor,
		Store:     store,
		Defaults:  defaults,
		Logger:    logger,
	}

	r.GET("/health", handlers.Health)
	r.POST("/batches", batchHandler.Create)
	r.GET("/batches/:id", batchHandler.Get)

	return r
}
