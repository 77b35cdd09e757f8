package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/e-surat-api/api/swagger"
	"github.com/noah-isme/e-surat-api/internal/handler"
	"github.com/noah-isme/e-surat-api/internal/middleware"
	"github.com/noah-isme/e-surat-api/internal/models"
	"github.com/noah-isme/e-surat-api/internal/service"
	"github.com/noah-isme/e-surat-api/pkg/config"
	"github.com/noah-isme/e-surat-api/pkg/logger"
	"github.com/noah-isme/e-surat-api/pkg/middleware/cors"
	"github.com/noah-isme/e-surat-api/pkg/middleware/requestid"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *service.MetricsService

	AuthService *service.AuthService

	Auth          *handler.AuthHandler
	Letters       *handler.LetterHandler
	Dispositions  *handler.DispositionHandler
	Calendar      *handler.CalendarHandler
	Notifications *handler.NotificationHandler
	Reports       *handler.ReportHandler
}

// New builds the gin engine with all routes and middleware.
func New(deps Deps) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestid.Middleware(),
		logger.GinMiddleware(deps.Logger),
		cors.New(deps.Config.CORS.AllowedOrigins),
	)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(deps.Config.APIPrefix)
	api.POST("/auth/login", deps.Auth.Login)
	api.POST("/auth/refresh", deps.Auth.Refresh)
	// Downloads authenticate through the signed token, not a JWT.
	if deps.Config.Reports.Enabled {
		api.GET("/reports/download", deps.Reports.Download)
	}

	authed := api.Group("", middleware.JWT(deps.AuthService))
	authed.GET("/auth/me", deps.Auth.Me)

	registerLetterRoutes(authed.Group("/incoming-letters"), deps, models.DirectionIncoming)
	registerLetterRoutes(authed.Group("/outgoing-letters"), deps, models.DirectionOutgoing)

	authed.GET("/incoming-letters/:id/dispositions", deps.Dispositions.History)
	authed.POST("/dispositions", deps.Dispositions.Route)
	authed.PUT("/dispositions/:id", deps.Dispositions.Update)

	authed.GET("/calendar/events", deps.Calendar.Range)
	authed.GET("/calendar/upcoming", deps.Calendar.Upcoming)

	authed.GET("/notifications", deps.Notifications.List)
	authed.PATCH("/notifications/read-all", deps.Notifications.MarkAllRead)
	authed.PATCH("/notifications/:id/read", deps.Notifications.MarkRead)

	if deps.Config.Reports.Enabled {
		authed.GET("/reports/agenda", middleware.RequireRole(models.RoleAdmin), deps.Reports.Agenda)
	}

	return r
}

func registerLetterRoutes(group *gin.RouterGroup, deps Deps, direction models.LetterDirection) {
	group.POST("", deps.Letters.Create(direction))
	group.GET("", deps.Letters.List(direction))
	group.GET("/:id", deps.Letters.Get)
	group.PUT("/:id", deps.Letters.Update)
	group.DELETE("/:id", deps.Letters.Delete)
	group.GET("/:id/download", deps.Letters.Download)
}
