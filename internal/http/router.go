package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/database"
)

// RouterConfig receives all controller dependencies, improving testability
// and reducing parameter count.
type RouterConfig struct {
	Database       *database.Database
	BookStore      BookStore
	CatalogStore   CatalogStore
	LikeStore      LikeStore
	FavoriteStore  FavoriteStore
	LookupStore    LookupStore
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool
	DatabaseConfig config.Database
	AdminEnabled   bool
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Resolve the viewer identity on every request; route groups decide
	// whether identity is required.
	router.Use(cfg.AuthMiddleware.Handler())

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.DatabaseConfig, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Auth endpoints
	authController := auth.NewController(cfg.AuthService, cfg.SessionManager)
	authController.RegisterRoutes(router)

	// Public catalog: no session required, viewer identity used if present
	catalogController := NewCatalogController(cfg.CatalogStore)
	router.GET("/api/catalog", catalogController.List)

	// Book endpoints require an authenticated session
	booksController := NewBooksController(cfg.BookStore, cfg.LikeStore, cfg.FavoriteStore)
	lookupsController := NewLookupsController(cfg.LookupStore)

	protected := router.Group("/api", cfg.AuthMiddleware.RequireAuth())
	{
		protected.GET("/books", booksController.ListOwned)
		protected.POST("/books", booksController.Create)
		protected.GET("/books/favorites", booksController.ListFavorites)
		protected.GET("/books/:id", booksController.Get)
		protected.PUT("/books/:id", booksController.Update)
		protected.DELETE("/books/:id", booksController.Delete)
		protected.POST("/books/:id/like", booksController.ToggleLike)
		protected.POST("/books/:id/favorite", booksController.ToggleFavorite)

		protected.GET("/categories", lookupsController.GetCategories)
		protected.GET("/tags", lookupsController.GetTags)
	}

	// Table-admin endpoints
	if cfg.AdminEnabled {
		adminController := NewAdminController(cfg.Database.DB, cfg.DatabaseConfig)
		adminGroup := router.Group("/api/db", cfg.AuthMiddleware.RequireAuth())
		adminController.RegisterRoutes(adminGroup)
	}

	return router
}
