package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/clinicore/clinic-api/internal/config"
	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/pkg/auth"
	"github.com/clinicore/clinic-api/pkg/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterDeps bundles everything the router needs to assemble the API.
type RouterDeps struct {
	Config     *config.Config
	Metrics    *metrics.Collector
	JWTManager *auth.JWTManager

	Auth         *AuthHandler
	Appointments *AppointmentHandler
	Doctors      *DoctorHandler
	Rooms        *RoomHandler

	// Ready reports whether downstream dependencies are reachable.
	Ready func(ctx context.Context) error
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  deps.Config.CORS.AllowedOrigins,
		AllowMethods:  deps.Config.CORS.AllowedMethods,
		AllowHeaders:  deps.Config.CORS.AllowedHeaders,
		MaxAge:        deps.Config.CORS.MaxAge,
		ExposeHeaders: []string{middleware.RequestIDHeader},
	}))

	globalLimit := middleware.NewRateLimiter(deps.Config.RateLimit.RequestsPerSecond, deps.Config.RateLimit.BurstSize)
	authLimit := middleware.NewAuthRateLimiter(deps.Config.RateLimit.AuthRequestsPerMinute)
	r.Use(globalLimit.Handler())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": deps.Config.App.Version})
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := deps.Ready(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(authLimit.Handler())
	{
		authGroup.POST("/register", deps.Auth.Register)
		authGroup.POST("/login", deps.Auth.Login)
		authGroup.POST("/refresh", deps.Auth.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.Authenticate(deps.JWTManager))
	{
		appointments := protected.Group("/appointments")
		{
			appointments.POST("", deps.Appointments.Book)
			appointments.GET("", deps.Appointments.List)
			appointments.GET("/:id", deps.Appointments.Get)
			appointments.PUT("/:id", deps.Appointments.Reschedule)
			appointments.DELETE("/:id", deps.Appointments.Cancel)
		}

		doctors := protected.Group("/doctors")
		{
			doctors.GET("", deps.Doctors.List)
			doctors.GET("/:id", deps.Doctors.Get)

			admin := doctors.Group("")
			admin.Use(middleware.RequireCatalogAccess())
			admin.POST("", deps.Doctors.Register)
			admin.PUT("/:id", deps.Doctors.Update)
			admin.DELETE("/:id", deps.Doctors.Delete)
		}

		rooms := protected.Group("/rooms")
		{
			rooms.GET("", deps.Rooms.List)
			rooms.GET("/:id", deps.Rooms.Get)
			rooms.GET("/number/:number", deps.Rooms.GetByNumber)

			admin := rooms.Group("")
			admin.Use(middleware.RequireCatalogAccess())
			admin.POST("", deps.Rooms.Register)
			admin.PUT("/:id", deps.Rooms.Update)
			admin.DELETE("/:id", deps.Rooms.Delete)
		}
	}

	return r
}
