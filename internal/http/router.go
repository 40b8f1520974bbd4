// README: HTTP router registration; gin engine with logging, recovery, and auth.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"walkbuddy/internal/http/handlers"
	"walkbuddy/internal/http/middleware"
	"walkbuddy/internal/infra"
	"walkbuddy/internal/modules/history"
	"walkbuddy/internal/modules/matching"
	"walkbuddy/internal/modules/route"
	"walkbuddy/internal/modules/safeloc"
	"walkbuddy/internal/modules/trip"
	"walkbuddy/internal/modules/user"
)

type RouterDeps struct {
	Trips    *trip.Service
	Matches  *matching.Service
	Meeting  *safeloc.Service
	Routes   *route.Service
	Users    *user.Service
	History  *history.Service
	Catalog  safeloc.Catalog
	Verifier infra.TokenVerifier
	Log      zerolog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.Logging(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	tripHandler := handlers.NewTripHandler(deps.Trips)
	matchHandler := handlers.NewMatchHandler(deps.Trips, deps.Matches, deps.Meeting, deps.Routes)
	userHandler := handlers.NewUserHandler(deps.Users, deps.History)
	safelocHandler := handlers.NewSafeLocationHandler(deps.Catalog)

	api := r.Group("/api")
	api.Use(middleware.Auth(deps.Verifier))
	{
		api.POST("/trips", tripHandler.Create)
		api.GET("/trips/:id", tripHandler.Get)
		api.POST("/trips/:id/complete", tripHandler.Complete)

		api.POST("/matches/search", matchHandler.Search)
		api.GET("/matches/nearby", matchHandler.Nearby)
		api.POST("/matches/:tripId/accept", matchHandler.Accept)
		api.POST("/matches/:tripId/reject", matchHandler.Reject)
		api.POST("/matches/:tripId/meeting-point", matchHandler.MeetingPoint)
		api.POST("/matches/:tripId/route", matchHandler.Route)

		api.POST("/users", userHandler.Create)
		api.GET("/users/:id", userHandler.Get)
		api.POST("/users/:id/rate", userHandler.Rate)
		api.GET("/users/:id/history", userHandler.History)
		api.POST("/users/:id/video-candidate", userHandler.VideoCandidate)

		api.GET("/safe-locations", safelocHandler.List)
	}

	return r
}
