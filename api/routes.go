package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/pawtrail/mailroom/api/handlers"
	"github.com/pawtrail/mailroom/api/middleware"
	"github.com/pawtrail/mailroom/internal/repository"
	"github.com/pawtrail/mailroom/internal/tracing"
	"github.com/pawtrail/mailroom/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, s *services.Services, repos *repository.Repositories, apikey string) {
	if s == nil {
		panic("Services cannot be nil")
	}
	if repos == nil {
		panic("Repositories cannot be nil")
	}

	// Add recovery middlewares
	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))

	// setup handlers
	apiHandlers := handlers.InitHandlers(repos, s)

	// Health check and status endpoints (no custom context needed)
	r.GET("/health", handlers.HealthCheck)
	r.GET("/status", handlers.Status())

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-PAWTRAIL-API-KEY",
		ValidAPIKey: apikey,
	})

	// Inbound webhook from the email transport. Authenticated by API key but
	// kept outside /v1 so the transport's URL stays stable across versions.
	webhooks := r.Group("/webhooks")
	webhooks.Use(apiKeyMiddleware)
	{
		webhooks.POST("/inbound-email", apiHandlers.InboundEmail.Handle())
	}

	// API group with version and custom context
	api := r.Group("/v1")
	api.Use(apiKeyMiddleware)
	api.Use(middleware.CustomContextMiddleware("mailroom"))
	api.Use(middleware.TracingMiddleware())
	{
		// Thread endpoints
		threads := api.Group("/threads")
		{
			threads.GET("", apiHandlers.Threads.List())
			threads.GET("/:id/messages", apiHandlers.Threads.Messages())
			threads.POST("/:id/read", apiHandlers.Threads.MarkRead())
			threads.DELETE("/:id", apiHandlers.Threads.Delete())
			threads.POST("/:id/restore", apiHandlers.Threads.Restore())
		}

		// Pending approval endpoints
		approvals := api.Group("/approvals")
		{
			approvals.GET("", apiHandlers.Approvals.List())
			approvals.POST("/:id/approve", apiHandlers.Approvals.Approve())
			approvals.POST("/:id/reject", apiHandlers.Approvals.Reject())
		}

		// Direct record persistence with duplicate override
		records := api.Group("/records")
		{
			records.POST("", apiHandlers.Approvals.SaveRecords())
		}

		// Stored document retrieval
		documents := api.Group("/documents")
		{
			documents.GET("", apiHandlers.Documents.Fetch())
		}
	}
}
