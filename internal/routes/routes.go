package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/maintenance-orders/internal/audit"
	"github.com/BruksfildServices01/maintenance-orders/internal/config"
	"github.com/BruksfildServices01/maintenance-orders/internal/handlers"
	infraRepo "github.com/BruksfildServices01/maintenance-orders/internal/infra/repository"
	"github.com/BruksfildServices01/maintenance-orders/internal/middleware"
	"github.com/BruksfildServices01/maintenance-orders/internal/report"
	"github.com/BruksfildServices01/maintenance-orders/internal/session"
	"github.com/BruksfildServices01/maintenance-orders/internal/timezone"
	ucOrder "github.com/BruksfildServices01/maintenance-orders/internal/usecase/order"
	"github.com/BruksfildServices01/maintenance-orders/internal/web"
)

type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Sessions *session.Manager
	Audit    audit.Sink
	Archive  report.Archive
	Logger   *zap.Logger
}

// NewRouter builds the engine with middleware, templates and every route.
func NewRouter(deps Deps) (*gin.Engine, error) {
	r := gin.New()

	tmpl, err := web.Templates(timezone.Location(deps.Config.Timezone))
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(deps.Logger),
		middleware.Metrics(),
	)

	RegisterRoutes(r, deps)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, deps Deps) {

	// ======================================================
	// INFRA
	// ======================================================
	orderRepo := infraRepo.NewOrderGormRepository(deps.DB)
	now := timezone.Clock
	generator := report.NewGenerator(deps.Config.Report.Dir, deps.Archive, now)

	// ======================================================
	// USE CASES
	// ======================================================
	listOrdersUC := ucOrder.NewListOrders(orderRepo)
	createOrderUC := ucOrder.NewCreateOrder(orderRepo, deps.Audit, now)
	formOptionsUC := ucOrder.NewFormOptions(orderRepo)
	startOrderUC := ucOrder.NewStartOrder(orderRepo, deps.Audit, now)
	completeOrderUC := ucOrder.NewCompleteOrder(orderRepo, deps.Audit, now)
	productivityUC := ucOrder.NewTechnicianProductivity(orderRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(deps.DB, deps.Sessions, deps.Audit)

	orderHandler := handlers.NewOrderHandler(
		listOrdersUC,
		createOrderUC,
		formOptionsUC,
		startOrderUC,
		completeOrderUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB, timezone.Location(deps.Config.Timezone))

	reportHandler := handlers.NewReportHandler(
		generator,
		productivityUC,
		formOptionsUC,
		deps.Audit,
	)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// PUBLIC
	// ======================================================
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// ======================================================
	// PROTECTED
	// ======================================================
	secured := r.Group("/")
	secured.Use(middleware.RequireSession(deps.Sessions, deps.DB))
	{
		secured.GET("/", orderHandler.List)
		secured.GET("/orders", orderHandler.List)
		secured.POST("/orders/:id/start", orderHandler.Start)
		secured.POST("/orders/:id/complete", orderHandler.Complete)

		secured.GET("/create-order", orderHandler.CreateForm)
		secured.POST("/create-order", orderHandler.Create)

		secured.GET("/generate-report", reportHandler.Form)
		secured.POST("/generate-report", reportHandler.Generate)

		secured.GET("/audit-logs", auditLogsHandler.List)
	}
}
