package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"work-equipment-service/internal/controllers"
	"work-equipment-service/internal/integrations"
	"work-equipment-service/internal/repositories"
	"work-equipment-service/internal/services"
	"work-equipment-service/pkg/config"
)

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	registry integrations.RegistryInterface,
	boundary integrations.CommitBoundary,
	logger *zap.Logger,
	cfg *config.Config,
) {
	api := e.Group("/api")

	// Repositories
	draftRepo := repositories.NewRedisDraftRepository(redisClient, cfg.Draft.TTL, cfg.Draft.KeyPrefix, logger)
	signalCacheRepo := repositories.NewRedisSignalCacheRepository(redisClient)
	returnRequestRepo := repositories.NewReturnRequestRepository(dbConn, logger)
	commitAuditRepo := repositories.NewCommitAuditRepository(dbConn, logger)
	stockRepo := repositories.NewStockRepository(dbConn, logger)

	// Services
	normalizer := services.NewSnapshotNormalizer(logger)
	draftService := services.NewDraftService(draftRepo, logger)
	transitionService := services.NewTransitionService(draftService, signalCacheRepo, logger)
	inventoryService := services.NewInventoryService(logger)
	returnRequestService := services.NewReturnRequestService(returnRequestRepo, draftService, inventoryService, logger)
	completionService := services.NewCompletionService(draftService, boundary, commitAuditRepo, logger)
	workEquipmentService := services.NewWorkEquipmentService(
		registry, normalizer, draftService, transitionService, inventoryService, returnRequestService, logger,
	)
	stockImportService := services.NewStockImportService(stockRepo, logger)

	// Controllers
	workEquipmentCtrl := controllers.NewWorkEquipmentController(workEquipmentService, transitionService, completionService, logger)
	returnRequestCtrl := controllers.NewReturnRequestController(returnRequestService, logger)
	stockImportCtrl := controllers.NewStockImportController(stockImportService, logger)

	registerWorkEquipmentRoutes(api, workEquipmentCtrl)
	registerReturnRequestRoutes(api, returnRequestCtrl, stockImportCtrl)
}

func registerWorkEquipmentRoutes(g *echo.Group, ctrl *controllers.WorkEquipmentController) {
	g.GET("/work-items/:workItemId/equipment", ctrl.GetState)
	g.POST("/work-items/:workItemId/equipment/install", ctrl.Install)
	g.POST("/work-items/:workItemId/equipment/remove", ctrl.MarkForRemoval)
	g.POST("/work-items/:workItemId/equipment/loss-flag", ctrl.ToggleLossFlag)
	g.POST("/work-items/:workItemId/equipment/reuse", ctrl.Reuse)
	g.POST("/work-items/:workItemId/equipment/reuse-all", ctrl.SetReuseAll)
	g.POST("/work-items/:workItemId/equipment/signal-status", ctrl.SetSignalStatus)
	g.POST("/work-items/:workItemId/equipment/commit", ctrl.Commit)
	g.DELETE("/work-items/:workItemId/equipment/draft", ctrl.Discard)
}

func registerReturnRequestRoutes(g *echo.Group, rrCtrl *controllers.ReturnRequestController, stockCtrl *controllers.StockImportController) {
	g.GET("/technicians/:technicianId/return-requests", rrCtrl.List)
	g.POST("/technicians/:technicianId/return-requests", rrCtrl.Create)
	g.DELETE("/technicians/:technicianId/return-requests/:equipmentId", rrCtrl.Cancel)
	g.POST("/technicians/:technicianId/stock/import", stockCtrl.ImportHandover)
}
