package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/cmd/docs"
	portssvc "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/txn_reconciliation_app/internal/metrics"
	"github.com/SscSPs/txn_reconciliation_app/internal/middleware"
	"github.com/SscSPs/txn_reconciliation_app/internal/platform/config"
	"github.com/SscSPs/txn_reconciliation_app/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const healthCheckTimeout = 3 * time.Second

// Pinger reports database reachability. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	db Pinger,
	posthogClient *utils.PosthogClientWrapper,
	logger *slog.Logger,
) {
	r.GET("/health", healthHandler(db, services.Ledger))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1")

	// Public routes: admin login and inbound notifications
	registerAuthRoutes(api, services.Session, rateLimitOrPass(cfg.LoginRateLimit, "login", logger))
	registerWebhookRoutes(api, services.Webhook, services.Transaction, cfg.LedgerWebhookAPIKey)

	setupAPIV1Routes(api, cfg, services, posthogClient)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the authenticated admin routes
func setupAPIV1Routes(
	api *gin.RouterGroup,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
) {
	v1 := api.Group("", middleware.AuthMiddleware(cfg.JWTSecret), middleware.PosthogMiddleware(posthogClient))

	registerSessionRoutes(v1, services.Session)
	RegisterTransactionRoutes(v1, services.Transaction, services.Approval, services.Webhook, services.Audit)
}

// rateLimitOrPass builds a per-IP limiter. A bad rate is logged and leaves the route unlimited.
func rateLimitOrPass(formattedRate, name string, logger *slog.Logger) gin.HandlerFunc {
	l, err := middleware.NewMemoryLimiter(formattedRate)
	if err != nil {
		logger.Error("Invalid rate limit, route left unlimited",
			slog.String("limiter", name), slog.String("rate", formattedRate), slog.String("error", err.Error()))
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(l)
}

// healthHandler godoc
// @Summary Service health
// @Description Reports database reachability and the ledger service health. Returns 503 when the database is down.
// @Tags root
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func healthHandler(db Pinger, ledger portssvc.LedgerServiceClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		status, overall, dbStatus := http.StatusOK, "ok", "up"
		if err := db.Ping(ctx); err != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Database ping failed", slog.String("error", err.Error()))
			status, overall, dbStatus = http.StatusServiceUnavailable, "degraded", "down"
		}

		// the ledger is reported but does not fail the check
		ledgerHealth := ledger.Health(ctx)
		ledgerStatus := ledgerHealth.Status
		if ledgerStatus == "" {
			ledgerStatus = string(ledgerHealth.Result.Outcome)
		}

		c.JSON(status, gin.H{
			"status":   overall,
			"database": dbStatus,
			"ledger":   ledgerStatus,
		})
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
