package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxhub/admin-backend/internal/adminserver/cache"
	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/adminserver/middleware"
	"github.com/taxhub/admin-backend/internal/adminserver/taxforms"
	"github.com/taxhub/admin-backend/internal/auth/jwt"
	"github.com/taxhub/admin-backend/internal/common/cnst"
	"github.com/taxhub/admin-backend/pkg/metrics"
	"github.com/taxhub/admin-backend/pkg/version"
)

// Deps carries everything the route tree needs
type Deps struct {
	DB       database.Database
	Cache    *cache.Cache
	JWT      *jwt.Service
	TaxForms *taxforms.Client
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// RegisterRoutes wires all handlers onto the engine. Shared between the
// server command and the handler tests.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": version.Get()})
	})

	authHandler := NewAuth(deps.DB, deps.JWT, deps.Logger)
	adminHandler := NewAdmin(deps.DB, deps.Cache, deps.Logger)
	clientHandler := NewClient(deps.DB, deps.Cache, deps.Logger)
	documentHandler := NewDocument(deps.DB, deps.Cache, deps.Logger)
	paymentHandler := NewPayment(deps.DB, deps.Cache, deps.Logger)
	noteHandler := NewNote(deps.DB, deps.Logger)
	estimateHandler := NewEstimate(deps.DB, deps.Logger)
	analyticsHandler := NewAnalytics(deps.DB, deps.Cache, deps.Logger)
	auditHandler := NewAuditLog(deps.DB, deps.Logger)
	taxFormHandler := NewTaxForm(deps.DB, deps.TaxForms, deps.Logger)

	api := r.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.Auth(deps.JWT, deps.DB))
	authed.GET("/auth/me", authHandler.Me)

	adminUsers := authed.Group("/admin-users", middleware.RequireSuperadmin())
	adminUsers.GET("", adminHandler.List)
	adminUsers.GET("/:id", adminHandler.Get)
	adminUsers.POST("", adminHandler.Create)
	adminUsers.PUT("/:id", adminHandler.Update)
	adminUsers.DELETE("/:id", adminHandler.Delete)

	clients := authed.Group("/clients")
	clients.GET("", clientHandler.List)
	clients.GET("/:id", clientHandler.Get)
	clients.POST("", middleware.RequirePermission(cnst.PermAddEditClient), clientHandler.Create)
	clients.PUT("/:id", middleware.RequirePermission(cnst.PermAddEditClient), clientHandler.Update)
	clients.DELETE("/:id", middleware.RequirePermission(cnst.PermAddEditClient), clientHandler.Delete)

	clients.GET("/:id/notes", noteHandler.List)
	clients.POST("/:id/notes", noteHandler.Create)
	clients.DELETE("/:id/notes/:noteId", noteHandler.Delete)

	clients.GET("/:id/estimates", estimateHandler.List)
	clients.POST("/:id/estimates", middleware.RequirePermission(cnst.PermApproveCostEstimate), estimateHandler.Create)
	clients.PUT("/:id/estimates/:estimateId", middleware.RequirePermission(cnst.PermApproveCostEstimate), estimateHandler.Update)
	clients.DELETE("/:id/estimates/:estimateId", middleware.RequirePermission(cnst.PermApproveCostEstimate), estimateHandler.Delete)

	documents := authed.Group("/documents")
	documents.GET("", documentHandler.List)
	documents.POST("", documentHandler.Create)
	documents.PUT("/:id", documentHandler.Update)
	documents.DELETE("/:id", documentHandler.Delete)

	payments := authed.Group("/payments")
	payments.GET("", paymentHandler.List)
	payments.POST("", middleware.RequirePermission(cnst.PermAddEditPayment), paymentHandler.Create)
	payments.PUT("/:id", middleware.RequirePermission(cnst.PermAddEditPayment), paymentHandler.Update)
	payments.DELETE("/:id", middleware.RequirePermission(cnst.PermAddEditPayment), paymentHandler.Delete)

	authed.GET("/analytics", analyticsHandler.Get)

	auditLogs := authed.Group("/audit-logs", middleware.RequireSuperadmin())
	auditLogs.GET("", auditHandler.List)

	authed.GET("/tax-forms", taxFormHandler.List)
}
