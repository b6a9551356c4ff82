package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"work-equipment-service/internal/entities"
	"work-equipment-service/internal/integrations"
	"work-equipment-service/internal/repositories"
	"work-equipment-service/pkg/constants"
	apperrors "work-equipment-service/pkg/errors"
	"work-equipment-service/pkg/utils"
)

// CompletionService assembles the final commit payload and drives it through
// the commit boundary. Commits are single-flight per work item; the draft is
// cleared only after the boundary confirms success.
type CompletionService struct {
	drafts   *DraftService
	boundary integrations.CommitBoundary
	auditLog repositories.CommitAuditRepositoryInterface
	inFlight *utils.KeyMutex
	logger   *zap.Logger
}

func NewCompletionService(
	drafts *DraftService,
	boundary integrations.CommitBoundary,
	auditLog repositories.CommitAuditRepositoryInterface,
	logger *zap.Logger,
) *CompletionService {
	return &CompletionService{
		drafts:   drafts,
		boundary: boundary,
		auditLog: auditLog,
		inFlight: utils.NewKeyMutex(),
		logger:   logger,
	}
}

// Commit assembles the payload from the stored draft and submits it. On
// failure the draft is untouched so the technician retries without data loss.
func (s *CompletionService) Commit(ctx context.Context, workItemID, technicianID string) (integrations.CommitResult, int, error) {
	if !s.inFlight.TryAcquire(workItemID) {
		return integrations.CommitResult{}, 0, apperrors.ErrCommitInFlight
	}
	defer s.inFlight.Release(workItemID)

	draft, err := s.drafts.Load(ctx, workItemID)
	if err != nil {
		return integrations.CommitResult{}, 0, err
	}
	if len(draft.Installed) == 0 && len(draft.MarkedForRemoval) == 0 {
		return integrations.CommitResult{}, 0, apperrors.ErrDraftNotFound
	}

	payload, err := s.Assemble(draft, technicianID)
	if err != nil {
		return integrations.CommitResult{}, 0, err
	}

	result, err := s.boundary.Commit(ctx, payload)
	s.recordAudit(ctx, payload, result, err)
	if err != nil {
		return integrations.CommitResult{}, 0, err
	}
	if !result.Success {
		return result, len(payload.Rows), apperrors.ErrCommitRejected
	}

	if err := s.drafts.Clear(ctx, workItemID); err != nil {
		// Commit already landed; a stale draft is recoverable on next load.
		s.logger.Error("draft clear after successful commit failed",
			zap.String("work_item_id", workItemID),
			zap.Error(err),
		)
	}
	return result, len(payload.Rows), nil
}

// Assemble builds the immutable payload. Every backend field is populated
// from the entity or a deterministic fallback, flags are "1"/"0" strings,
// and cross-field invariants are re-checked before emitting.
func (s *CompletionService) Assemble(draft *entities.Draft, technicianID string) (*entities.CommitPayload, error) {
	rows := make([]entities.CommitRow, 0, len(draft.Installed)+len(draft.MarkedForRemoval))

	baselineIDs := make([]string, 0, len(draft.Installed))
	for id := range draft.Installed {
		baselineIDs = append(baselineIDs, id)
	}
	sort.Strings(baselineIDs)

	installedUnits := make(map[string]struct{}, len(draft.Installed))
	for _, baselineID := range baselineIDs {
		binding := draft.Installed[baselineID]
		installedUnits[binding.ActualUnit.EquipmentID] = struct{}{}
		row := s.baseRow(binding.ActualUnit)
		row.ContractBaselineID = baselineID
		row.Direction = entities.DirectionInstall
		row.MacAddress = utils.FirstNonEmpty(binding.MacAddress, binding.ActualUnit.MacAddress)
		row.InstallLocation = utils.FirstNonEmpty(binding.InstallLocation, binding.ActualUnit.InstallLocation)
		rows = append(rows, row)
	}

	removalIDs := make([]string, 0, len(draft.MarkedForRemoval))
	for id := range draft.MarkedForRemoval {
		removalIDs = append(removalIDs, id)
	}
	sort.Strings(removalIDs)

	for _, equipmentID := range removalIDs {
		unit := draft.MarkedForRemoval[equipmentID]
		flags := draft.RemovalStatus[equipmentID]

		if _, installed := installedUnits[equipmentID]; installed {
			return nil, apperrors.NewValidationError(equipmentID, "unit is both installed and marked for removal")
		}
		if unit.IsCustomerOwned() && flags.AnyLoss() {
			return nil, apperrors.NewValidationError(equipmentID, "customer-owned unit carries a loss flag")
		}
		if flags.Reusable && flags.AnyLoss() {
			return nil, apperrors.NewValidationError(equipmentID, "reusable unit carries a loss flag")
		}

		row := s.baseRow(unit)
		row.Direction = entities.DirectionRemove
		row.EquipmentLoss = bin(flags.Lost)
		row.PartLoss = bin(flags.AdapterLost)
		row.EquipmentBrk = bin(flags.RemoteLost)
		row.CableLoss = bin(flags.CableLost)
		row.CradleLoss = bin(flags.CradleLost)
		row.ReuseFlag = bin(flags.Reusable)
		rows = append(rows, row)
	}

	return &entities.CommitPayload{
		WorkItemID:   draft.WorkItemID,
		TechnicianID: technicianID,
		Rows:         rows,
		AssembledAt:  time.Now(),
	}, nil
}

func (s *CompletionService) baseRow(unit entities.Equipment) entities.CommitRow {
	return entities.CommitRow{
		EquipmentID:        unit.EquipmentID,
		ContractBaselineID: unit.ServiceComponentID,
		ItemCategoryCode:   unit.ItemCategoryCode,
		ModelCode:          unit.ModelCode,
		SerialNumber:       unit.SerialNumber,
		MacAddress:         unit.MacAddress,
		InstallLocation:    unit.InstallLocation,
		LeaseCode:          utils.FirstNonEmpty(unit.LeaseCode, constants.FallbackLeaseCode),
		InstallmentCode:    constants.FallbackInstallmentCode,
		UseStatusCode:      constants.FallbackUseStatusCode,
		ChangeReasonCode:   utils.FirstNonEmpty(unit.ChangeReasonCode, constants.ChangeReasonDefault),

		EquipmentLoss: bin(false),
		PartLoss:      bin(false),
		EquipmentBrk:  bin(false),
		CableLoss:     bin(false),
		CradleLoss:    bin(false),
		ReuseFlag:     bin(false),

		ServiceComponentID:      unit.ServiceComponentID,
		BasicProductComponentID: unit.BasicProductComponentID,
		ProductCode:             unit.ProductCode,
		ServiceCode:             unit.ServiceCode,
		MasterBranchID:          unit.MasterBranchID,
		BranchID:                unit.BranchID,
		SaleAmount:              utils.FirstNonEmpty(unit.SaleAmount, "0"),
	}
}

func bin(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func (s *CompletionService) recordAudit(ctx context.Context, payload *entities.CommitPayload, result integrations.CommitResult, commitErr error) {
	audit := entities.CommitAudit{
		WorkItemID:   payload.WorkItemID,
		TechnicianID: payload.TechnicianID,
		RowCount:     len(payload.Rows),
		Success:      commitErr == nil && result.Success,
		ResultCode:   result.Code,
		Message:      result.Message,
	}
	if commitErr != nil {
		audit.Message = commitErr.Error()
	}
	if err := s.auditLog.Record(ctx, audit); err != nil {
		s.logger.Warn("commit audit write failed",
			zap.String("work_item_id", payload.WorkItemID),
			zap.Error(err),
		)
	}
}
