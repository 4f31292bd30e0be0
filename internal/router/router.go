package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-lostfound-api/internal/handler"
	"campus-lostfound-api/internal/mailer"
	"campus-lostfound-api/internal/metrics"
	"campus-lostfound-api/internal/middleware"
	"campus-lostfound-api/internal/repository"
	"campus-lostfound-api/internal/service"
	"campus-lostfound-api/internal/session"
	"campus-lostfound-api/internal/storage"
	"campus-lostfound-api/internal/token"
)

// Config holds router configuration
type Config struct {
	DB         *gorm.DB
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Sessions   *session.Manager
	Tokens     *token.Issuer
	Mailer     mailer.Mailer
	Images     storage.ImageStore
	Auth       service.AuthConfig
	SessionTTL time.Duration
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "lostfound-service"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if cfg.DB == nil {
			c.JSON(503, gin.H{"status": "not ready", "service": "lostfound-service"})
			return
		}
		sqlDB, err := cfg.DB.DB()
		if err != nil {
			c.JSON(503, gin.H{"status": "not ready", "service": "lostfound-service"})
			return
		}
		if err := sqlDB.Ping(); err != nil {
			c.JSON(503, gin.H{"status": "not ready", "service": "lostfound-service"})
			return
		}
		c.JSON(200, gin.H{"status": "ready", "service": "lostfound-service"})
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(cfg.DB)
	postRepo := repository.NewPostRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.Tokens, cfg.Sessions, cfg.Mailer, cfg.Auth, cfg.Metrics, cfg.Logger)
	postService := service.NewPostService(postRepo, userRepo, cfg.Images, cfg.Metrics, cfg.Logger)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, cfg.Metrics, cfg.Logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.SessionTTL)
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)

	// Public routes
	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", authHandler.Register)
	r.GET("/confirm/:token", authHandler.Confirm)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)

	// Session-gated routes
	authed := r.Group("")
	authed.Use(middleware.RequireSession(cfg.Sessions))
	{
		authed.GET("/", postHandler.Index)
		authed.GET("/logout", authHandler.Logout)
		authed.POST("/post", postHandler.Create)
		authed.POST("/post/:postId/comment", commentHandler.Create)
		authed.POST("/post/:postId/delete", postHandler.Delete)
	}

	return r
}
