package router

import (
	"time"

	"github.com/brunovittoria/cofrin.io-sub000/internal/config"
	"github.com/brunovittoria/cofrin.io-sub000/internal/engine"
	"github.com/brunovittoria/cofrin.io-sub000/internal/handler"
	"github.com/brunovittoria/cofrin.io-sub000/internal/middleware"
	"github.com/brunovittoria/cofrin.io-sub000/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORS.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsCfg))

	eng := engine.New(db)

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret, db))

	protected.GET("/me", handler.GetMe)
	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db, cfg.Security.BcryptCost))

	prefDefaults := models.Preference{
		Theme:    "light",
		PageSize: cfg.App.PageSize,
		Currency: cfg.App.Currency,
	}
	if prefDefaults.PageSize <= 0 {
		prefDefaults.PageSize = 20
	}
	if prefDefaults.Currency == "" {
		prefDefaults.Currency = "BRL"
	}
	protected.GET("/preferences", handler.GetPreferences(db, prefDefaults))
	protected.PUT("/preferences", handler.UpdatePreferences(db, prefDefaults))

	categoryHandler := handler.NewCategoryHandler(db)
	protected.POST("/categories", categoryHandler.Create)
	protected.GET("/categories", categoryHandler.List)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	cardHandler := handler.NewCardHandler(db)
	protected.POST("/cards", cardHandler.Create)
	protected.GET("/cards", cardHandler.List)
	protected.PUT("/cards/:id", cardHandler.Update)
	protected.DELETE("/cards/:id", cardHandler.Delete)

	entryHandler := handler.NewEntryHandler(db)
	protected.POST("/entries", entryHandler.Create)
	protected.GET("/entries", entryHandler.List)
	protected.PUT("/entries/:id", entryHandler.Update)
	protected.DELETE("/entries/:id", entryHandler.Delete)

	launchHandler := handler.NewLaunchHandler(eng)
	protected.POST("/launches", launchHandler.Create)
	protected.GET("/launches", launchHandler.List)
	protected.PUT("/launches/:id", launchHandler.Update)
	protected.DELETE("/launches/:id", launchHandler.Delete)
	protected.POST("/launches/:id/complete", launchHandler.Complete)

	goalHandler := handler.NewGoalHandler(eng)
	protected.POST("/goals", goalHandler.Create)
	protected.GET("/goals", goalHandler.List)
	protected.GET("/goals/:id", goalHandler.Get)
	protected.PUT("/goals/:id", goalHandler.Update)
	protected.DELETE("/goals/:id", goalHandler.Delete)
	protected.POST("/goals/:id/progress", goalHandler.AddProgress)
	protected.POST("/goals/:id/status", goalHandler.SetStatus)
	protected.GET("/goals/:id/checkins", goalHandler.ListCheckIns)
	protected.GET("/goals/:id/suggestion", goalHandler.Suggestion)

	statsHandler := handler.NewStatsHandler(db)
	protected.GET("/stats/monthly", statsHandler.Monthly)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.CSV)
	protected.GET("/export/xlsx", exportHandler.XLSX)

	return r
}
