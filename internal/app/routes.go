package app

import (
	"github.com/donaldwalker7495-max/techcheck-api/internal/auth"
	"github.com/donaldwalker7495-max/techcheck-api/internal/cache"
	"github.com/donaldwalker7495-max/techcheck-api/internal/config"
	"github.com/donaldwalker7495-max/techcheck-api/internal/handlers"
	"github.com/donaldwalker7495-max/techcheck-api/internal/ratelimit"
	"github.com/donaldwalker7495-max/techcheck-api/internal/repo"
	"github.com/donaldwalker7495-max/techcheck-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Duration())
	attemptRepo := repo.NewPGLoginAttemptRepo(db)
	limiter := ratelimit.New(attemptRepo, cfg.RateLimit.Window.Duration(), cfg.RateLimit.MaxAttempts)
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo, limiter, tokens)
	authHandler := handlers.NewAuthHandler(userSvc)
	registerAuthRoutes(api, authHandler, tokens)

	productRepo := repo.NewPGProductRepo(db)
	productCache := cache.NewProductCache(rdb, cfg.Redis.DefaultTTL.Duration())
	productSvc := service.NewProductService(productRepo, productCache)
	productHandler := handlers.NewProductHandler(productSvc)
	registerProductRoutes(api, productHandler, tokens)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Techcheck API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler, tokens *auth.TokenService) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/protected", auth.RequireAuth(tokens), h.Protected)
}

// registerProductRoutes: reads are public, mutations require a bearer token.
func registerProductRoutes(api *gin.RouterGroup, h *handlers.ProductHandler, tokens *auth.TokenService) {
	api.GET("/products", h.List)
	api.GET("/products/search", h.Search)
	api.GET("/products/:id", h.GetByID)

	protected := api.Group("", auth.RequireAuth(tokens))
	protected.POST("/products", h.Create)
	protected.PUT("/products/:id", h.Update)
	protected.DELETE("/products/:id", h.Delete)
}
