package controllers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"work-equipment-service/internal/services"
	apperrors "work-equipment-service/pkg/errors"
	"work-equipment-service/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type StockImportController struct {
	stockImportService *services.StockImportService
	logger             *zap.Logger
}

func NewStockImportController(stockImportService *services.StockImportService, logger *zap.Logger) *StockImportController {
	return &StockImportController{
		stockImportService: stockImportService,
		logger:             logger,
	}
}

// ImportHandover accepts an xlsx handover sheet upload and loads it into the
// technician's stock.
func (c *StockImportController) ImportHandover(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "missing 'file' upload", err, nil),
			c.logger,
		)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "unreadable upload", err, nil),
			c.logger,
		)
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "handover-*"+filepath.Ext(fileHeader.Filename))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	tmp.Close()

	summary, err := c.stockImportService.ImportHandoverSheet(
		ctx.Request().Context(),
		ctx.Param("technicianId"),
		tmp.Name(),
	)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, summary, "handover sheet imported", http.StatusOK)
}
