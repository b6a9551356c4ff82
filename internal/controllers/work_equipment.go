package controllers

import (
	"net/http"

	"work-equipment-service/internal/dto"
	"work-equipment-service/internal/integrations"
	"work-equipment-service/internal/services"
	"work-equipment-service/pkg/constants"
	apperrors "work-equipment-service/pkg/errors"
	"work-equipment-service/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type WorkEquipmentController struct {
	workEquipmentService *services.WorkEquipmentService
	transitionService    *services.TransitionService
	completionService    *services.CompletionService
	logger               *zap.Logger
}

func NewWorkEquipmentController(
	workEquipmentService *services.WorkEquipmentService,
	transitionService *services.TransitionService,
	completionService *services.CompletionService,
	logger *zap.Logger,
) *WorkEquipmentController {
	return &WorkEquipmentController{
		workEquipmentService: workEquipmentService,
		transitionService:    transitionService,
		completionService:    completionService,
		logger:               logger,
	}
}

func queryFromContext(ctx echo.Context) integrations.SnapshotQuery {
	return integrations.SnapshotQuery{
		WorkItemID:     ctx.Param("workItemId"),
		ContractID:     ctx.QueryParam("contractId"),
		TechnicianID:   ctx.QueryParam("technicianId"),
		ServiceCode:    ctx.QueryParam("serviceCode"),
		MasterBranchID: ctx.QueryParam("masterBranchId"),
	}
}

func (c *WorkEquipmentController) GetState(ctx echo.Context) error {
	state, err := c.workEquipmentService.State(ctx.Request().Context(), queryFromContext(ctx))
	if err != nil {
		c.logger.Error("GetState: failed to build work state", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, state, "work state loaded", http.StatusOK)
}

func (c *WorkEquipmentController) Install(ctx echo.Context) error {
	var payload dto.InstallEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	draft, err := c.workEquipmentService.Install(ctx.Request().Context(), queryFromContext(ctx), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, draft, "equipment installed", http.StatusOK)
}

func (c *WorkEquipmentController) MarkForRemoval(ctx echo.Context) error {
	var payload dto.MarkForRemovalDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	draft, err := c.transitionService.MarkForRemoval(ctx.Request().Context(), ctx.Param("workItemId"), payload.EquipmentID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, draft, "equipment marked for removal", http.StatusOK)
}

func (c *WorkEquipmentController) ToggleLossFlag(ctx echo.Context) error {
	var payload dto.ToggleLossFlagDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	draft, err := c.transitionService.ToggleLossFlag(
		ctx.Request().Context(),
		ctx.Param("workItemId"),
		payload.EquipmentID,
		constants.RemovalFlag(payload.Flag),
		payload.Value,
	)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, draft, "loss flag updated", http.StatusOK)
}

func (c *WorkEquipmentController) Reuse(ctx echo.Context) error {
	var payload dto.ReuseEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	draft, err := c.workEquipmentService.Reuse(ctx.Request().Context(), queryFromContext(ctx), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, draft, "equipment reinstated", http.StatusOK)
}

func (c *WorkEquipmentController) SetReuseAll(ctx echo.Context) error {
	var payload dto.SetReuseAllDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger,
		)
	}

	draft, err := c.transitionService.SetReuseAll(ctx.Request().Context(), ctx.Param("workItemId"), payload.Value)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, draft, "batch reuse updated", http.StatusOK)
}

func (c *WorkEquipmentController) SetSignalStatus(ctx echo.Context) error {
	var payload dto.SetSignalStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	draft, err := c.transitionService.SetSignalStatus(ctx.Request().Context(), ctx.Param("workItemId"), payload.Status)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, draft, "signal status recorded", http.StatusOK)
}

func (c *WorkEquipmentController) Commit(ctx echo.Context) error {
	result, rowCount, err := c.completionService.Commit(
		ctx.Request().Context(),
		ctx.Param("workItemId"),
		ctx.QueryParam("technicianId"),
	)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	response := dto.CommitResponseDTO{
		Success:  result.Success,
		Code:     result.Code,
		Message:  result.Message,
		RowCount: rowCount,
	}
	return utils.SuccessResponse(ctx, response, "work item committed", http.StatusOK)
}

func (c *WorkEquipmentController) Discard(ctx echo.Context) error {
	if err := c.workEquipmentService.Discard(ctx.Request().Context(), ctx.Param("workItemId")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "draft discarded", http.StatusOK)
}
