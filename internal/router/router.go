// Package router wires the HTTP surface: public reads, member
// self-service behind JWT auth, and the admin allocation routes behind
// JWT plus the admin role.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/jdrivas/gtm/internal/config"
	"github.com/jdrivas/gtm/internal/handler"
	"github.com/jdrivas/gtm/internal/middleware"
	"github.com/jdrivas/gtm/internal/model"
)

// Register sets up every route under the /api prefix. keys may come
// from a JWKS fetch or a test fixture; rdb may be nil, in which case
// rate limiting and response caching are pass-throughs.
func Register(e *echo.Echo, h *handler.Handler, keys middleware.KeySet, rdb *redis.Client) {
	api := e.Group("/api")

	// Public reads. The schedule and the summary are the hot paths, so
	// they sit behind the short-TTL response cache.
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	api.GET("/health", h.Health)
	api.GET("/games", h.ListGames, cache)
	api.GET("/games/:game_pk", h.GetGame)
	api.GET("/games/:game_pk/promotions", h.ListGamePromotions)
	api.GET("/games/:game_pk/tickets", h.ListGameTickets)
	api.GET("/tickets/summary", h.TicketSummary, cache)
	api.GET("/seats", h.ListSeats)

	auth := middleware.JWTAuth(keys, h.Cfg.AuthAudience, h.Cfg.AuthIssuer)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Member self-service. Mutating routes are rate limited per subject.
	my := api.Group("/my", auth)
	my.GET("/requests", h.ListMyRequests)
	my.POST("/requests", h.CreateMyRequests, limit)
	my.PATCH("/requests/:id", h.UpdateMyRequest, limit)
	my.DELETE("/requests/:id", h.WithdrawMyRequest, limit)
	my.GET("/games", h.ListMyGames)
	my.POST("/games/:game_pk/release", h.ReleaseMyGame, limit)

	api.GET("/users/me", h.Me, auth)

	// Admin surface: allocation, directory, inventory edits, import.
	admin := api.Group("", auth, middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", h.ListUsers)
	admin.GET("/admin/allocation", h.AllocationSummary)
	admin.GET("/admin/allocation/by-user/:user_id", h.AllocationByUser)
	admin.GET("/admin/allocation/:game_pk", h.AllocationDetail)
	admin.GET("/admin/requests", h.ListPendingRequests)
	admin.POST("/admin/allocate", h.Allocate)
	admin.DELETE("/admin/allocate/:id", h.RevokeAssignment)
	admin.POST("/admin/scrape-schedule", h.ScrapeSchedule)
	admin.POST("/seats", h.AddSeat)
	admin.POST("/seats/batch", h.AddSeatBatch)
	admin.PATCH("/seats/group", h.UpdateSeatGroupNotes)
	admin.DELETE("/seats/:id", h.DeleteSeat)
	admin.PATCH("/tickets/:id", h.UpdateTicket)
}
