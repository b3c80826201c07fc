package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pge-app/incidents-api/internal/config"
	"github.com/pge-app/incidents-api/internal/constants"
	"github.com/pge-app/incidents-api/internal/database"
	"github.com/pge-app/incidents-api/internal/handlers"
	"github.com/pge-app/incidents-api/internal/middleware"
	"github.com/pge-app/incidents-api/internal/repository"
	"github.com/pge-app/incidents-api/internal/services"
	"github.com/pge-app/incidents-api/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.GinMode == "release" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg, logger); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	r := gin.Default()

	// Session middleware backed by Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logger.Fatal("failed to create session store", zap.Error(err))
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	incidentRepo := repository.NewIncidentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	refRepo := repository.NewReferenceRepository(db)

	authService := services.NewAuthService(userRepo, refRepo)
	userService := services.NewUserService(userRepo, refRepo)
	incidentService := services.NewIncidentService(incidentRepo, refRepo)
	exportService := services.NewExportService(incidentRepo)

	var photoStore storage.PhotoStore
	if client := storage.NewClient(cfg.StorageBaseURL, cfg.StorageBucket, cfg.StorageAPIKey, logger); client != nil {
		photoStore = client
	} else {
		logger.Warn("photo storage not configured, uploads disabled")
	}

	iconBaseURL := ""
	if cfg.StorageBaseURL != "" {
		iconBaseURL = cfg.StorageBaseURL + "/storage/v1/object/public/LogosCategorias"
	}

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	incidentHandler := handlers.NewIncidentHandler(incidentService, exportService)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo, iconBaseURL)
	refHandler := handlers.NewReferenceHandler(refRepo)
	photoHandler := handlers.NewPhotoHandler(photoStore)

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Reference data
	r.GET("/roles", refHandler.ListRoles)
	r.GET("/estado_incidencias", refHandler.ListStates)
	r.GET("/categories", categoryHandler.List)
	r.POST("/categories/update-icons", categoryHandler.UpdateIcons)

	// Incidents
	incidents := r.Group("/incidents")
	{
		incidents.POST("", incidentHandler.Create)
		incidents.GET("", incidentHandler.ListBBox)
		incidents.GET("/near", incidentHandler.ListNear)
		incidents.GET("/filter", incidentHandler.Filter)
		incidents.GET("/export", incidentHandler.Export)
		incidents.GET("/:id", incidentHandler.Get)
		incidents.PUT("/:id", incidentHandler.Update)
		incidents.PATCH("/:id/status", incidentHandler.SetStatus)
		incidents.DELETE("/:id", incidentHandler.Delete)
	}

	// Users
	users := r.Group("/users")
	{
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
		users.PATCH("/:id/role", userHandler.ChangeRole)
	}

	// Auth
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/register-admin", authHandler.RegisterAdmin)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/change-password", authHandler.ChangePassword)
		auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
	}

	// Photos
	r.POST("/photos/upload", photoHandler.Upload)

	logger.Info("server starting", zap.String("addr", cfg.ListenAddr))
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
