package controllers

import (
	"net/http"

	"work-equipment-service/internal/dto"
	"work-equipment-service/internal/services"
	apperrors "work-equipment-service/pkg/errors"
	"work-equipment-service/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ReturnRequestController struct {
	returnRequestService *services.ReturnRequestService
	logger               *zap.Logger
}

func NewReturnRequestController(returnRequestService *services.ReturnRequestService, logger *zap.Logger) *ReturnRequestController {
	return &ReturnRequestController{
		returnRequestService: returnRequestService,
		logger:               logger,
	}
}

func (c *ReturnRequestController) List(ctx echo.Context) error {
	groups, err := c.returnRequestService.List(ctx.Request().Context(), ctx.Param("technicianId"))
	if err != nil {
		c.logger.Error("List: failed to load return requests", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, groups, "return requests loaded", http.StatusOK)
}

func (c *ReturnRequestController) Create(ctx echo.Context) error {
	var payload dto.CreateReturnRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	rows, err := c.returnRequestService.Create(
		ctx.Request().Context(),
		ctx.Param("technicianId"),
		ctx.QueryParam("workItemId"),
		payload,
	)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, rows, "return requests created", http.StatusCreated)
}

func (c *ReturnRequestController) Cancel(ctx echo.Context) error {
	deleted, err := c.returnRequestService.Cancel(
		ctx.Request().Context(),
		ctx.Param("technicianId"),
		ctx.Param("equipmentId"),
	)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]int64{"deleted_rows": deleted}, "return request cancelled", http.StatusOK)
}
