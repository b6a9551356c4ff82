package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"work-equipment-service/internal/dto"
	"work-equipment-service/internal/entities"
	"work-equipment-service/internal/repositories"
	apperrors "work-equipment-service/pkg/errors"
)

// ReturnRequestService manages the technician's pending return queue.
type ReturnRequestService struct {
	returnRequestRepository repositories.ReturnRequestRepositoryInterface
	drafts                  *DraftService
	inventory               *InventoryService
	logger                  *zap.Logger
}

func NewReturnRequestService(
	returnRequestRepository repositories.ReturnRequestRepositoryInterface,
	drafts *DraftService,
	inventory *InventoryService,
	logger *zap.Logger,
) *ReturnRequestService {
	return &ReturnRequestService{
		returnRequestRepository: returnRequestRepository,
		drafts:                  drafts,
		inventory:               inventory,
		logger:                  logger,
	}
}

// List returns the deduplicated view of the technician's pending returns.
func (s *ReturnRequestService) List(ctx context.Context, technicianID string) ([]entities.ReturnRequestGroup, error) {
	rows, err := s.returnRequestRepository.ListByTechnician(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	return s.inventory.DeduplicateReturnRequests(rows), nil
}

// Create files return requests for units the technician marked for removal in
// the given work item. Customer property is skipped; those units go back to
// the customer, not into the return chain.
func (s *ReturnRequestService) Create(ctx context.Context, technicianID, workItemID string, payload dto.CreateReturnRequestDTO) ([]entities.PendingReturnRequest, error) {
	draft, err := s.drafts.Load(ctx, workItemID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rows := make([]entities.PendingReturnRequest, 0, len(payload.EquipmentIDs))
	for _, equipmentID := range payload.EquipmentIDs {
		unit, marked := draft.MarkedForRemoval[equipmentID]
		if !marked {
			return nil, apperrors.ErrNotRemovable
		}
		if unit.IsCustomerOwned() {
			s.logger.Debug("customer property excluded from return request",
				zap.String("equipment_id", equipmentID),
			)
			continue
		}
		rows = append(rows, entities.PendingReturnRequest{
			TechnicianID:     technicianID,
			EquipmentID:      equipmentID,
			RequestTimestamp: now,
			ReturnTypeCode:   payload.ReturnTypeCode,
			ArrivalFlag:      unit.ArrivalFlag,
			ProcessingStatus: "PENDING",
			ModelName:        unit.ModelName,
			SerialNumber:     unit.SerialNumber,
			ItemCategoryCode: unit.ItemCategoryCode,
		})
	}

	if err := s.returnRequestRepository.Add(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Cancel deletes every stored row for the unit, never a subset.
func (s *ReturnRequestService) Cancel(ctx context.Context, technicianID, equipmentID string) (int64, error) {
	deleted, err := s.returnRequestRepository.DeleteAllForEquipment(ctx, technicianID, []string{equipmentID})
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, apperrors.ErrNotFound
	}
	return deleted, nil
}
