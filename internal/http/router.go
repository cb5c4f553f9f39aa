package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/writeflow/authsvc/internal/auth"
	"github.com/writeflow/authsvc/internal/config"
	"github.com/writeflow/authsvc/internal/domain/user"
	"github.com/writeflow/authsvc/internal/http/handlers"
	"github.com/writeflow/authsvc/internal/http/middlewares"
	"github.com/writeflow/authsvc/internal/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter wires middleware and routes around the auth service. metrics and
// rdb may be nil (no /metrics endpoint, in-process rate limiting).
func NewRouter(log *slog.Logger, svc *auth.Service, cfg config.Config, prom *observability.Prom, metrics http.Handler, rdb *redis.Client, ping func() error) *gin.Engine {
	if cfg.Env != "dev" && gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("authsvc"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())

	if len(cfg.CORSOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	}

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// health + metrics

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	// credential endpoints are brute-force targets; limit by client IP
	var limited gin.HandlerFunc

	if rdb != nil {
		limited = middlewares.NewRedisRateLimiter(rdb, cfg.LoginRateLimit, cfg.LoginRateWindow).Middleware(middlewares.KeyByIP)
	} else {
		limited = middlewares.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow).Middleware(middlewares.KeyByIP)
	}

	authHandler := handlers.NewAuthHandler(svc, prom)
	authMw := middlewares.NewAuthMiddleware(svc)

	api := r.Group("/api/auth")
	{
		api.POST("/signup", limited, authHandler.SignUp)
		api.POST("/login", limited, authHandler.Login)
		api.POST("/refresh", authHandler.Refresh)
		api.GET("/me", authMw.RequireAuth(), authHandler.Me)
	}

	adminHandler := handlers.NewAdminUsersHandler(svc)

	admin := r.Group("/api/admin", authMw.RequireAuth(), authMw.RequireRole(user.RoleAdmin))
	{
		admin.PATCH("/users/:email/role", adminHandler.SetRole)
		admin.PATCH("/users/:email/active", adminHandler.SetActive)
	}

	return r
}
