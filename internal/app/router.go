package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"greencycle/internal/handler"
	"greencycle/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RequestHandler *handler.RequestHandler
	UserHandler    *handler.UserHandler
	LedgerHandler  *handler.LedgerHandler
	StatsHandler   *handler.StatsHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.GetAll)
			users.GET("/:id", deps.UserHandler.Get)
			users.GET("/:id/transactions", deps.UserHandler.Transactions)
			users.POST("/:id/withdraw", deps.UserHandler.Withdraw)
		}

		// Pickup request routes.
		requests := v1.Group("/requests")
		{
			requests.POST("", deps.RequestHandler.Create)
			requests.GET("", deps.RequestHandler.GetAll)
			requests.GET("/pending", deps.RequestHandler.ListPending)
			requests.GET("/:id", deps.RequestHandler.Get)
			requests.POST("/:id/accept", deps.RequestHandler.Accept)
			requests.POST("/:id/collect", deps.RequestHandler.Collect)
			requests.POST("/:id/complete", deps.RequestHandler.Complete)
			requests.POST("/:id/cancel", deps.RequestHandler.Cancel)
		}

		// Ledger routes.
		ledger := v1.Group("/ledger")
		{
			ledger.POST("/entries", deps.LedgerHandler.Record)
		}

		// Stats routes.
		stats := v1.Group("/stats")
		{
			stats.GET("/users/:id", deps.StatsHandler.UserStats)
			stats.GET("/collectors/:id", deps.StatsHandler.CollectorStats)
			stats.GET("/platform", deps.StatsHandler.PlatformStats)
			stats.GET("/growth", deps.StatsHandler.Growth)
			stats.GET("/leaderboard", deps.StatsHandler.Leaderboard)
		}
	}

	return router
}
