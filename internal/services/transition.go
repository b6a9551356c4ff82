package services

import (
	"context"

	"go.uber.org/zap"

	"work-equipment-service/internal/entities"
	"work-equipment-service/internal/repositories"
	"work-equipment-service/pkg/constants"
	apperrors "work-equipment-service/pkg/errors"
)

// TransitionService applies user-driven state transitions to a draft. All
// guards live here so every caller gets the same rules.
type TransitionService struct {
	drafts      *DraftService
	signalCache repositories.SignalCacheRepositoryInterface
	logger      *zap.Logger
}

func NewTransitionService(drafts *DraftService, signalCache repositories.SignalCacheRepositoryInterface, logger *zap.Logger) *TransitionService {
	return &TransitionService{
		drafts:      drafts,
		signalCache: signalCache,
		logger:      logger,
	}
}

// Install binds a physical unit to a contract line. A line that already has
// an active binding rejects the attempt and the draft is unchanged.
func (s *TransitionService) Install(ctx context.Context, workItemID string, binding entities.InstalledBinding) (*entities.Draft, error) {
	draft, err := s.drafts.Mutate(ctx, workItemID, func(draft *entities.Draft) error {
		if existing, bound := draft.Installed[binding.ContractBaselineID]; bound {
			if existing.ActualUnit.EquipmentID != binding.ActualUnit.EquipmentID {
				return apperrors.NewConflictError(binding.ContractBaselineID, binding.ActualUnit.EquipmentID)
			}
			// Same unit re-submitted: refresh placement metadata.
		}

		unit := binding.ActualUnit
		unit.Provenance = entities.ProvenanceCustomerInstalled
		binding.ActualUnit = unit
		draft.Installed[binding.ContractBaselineID] = binding
		draft.LastSignalStatus = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSignal(ctx, binding.ActualUnit.EquipmentID)
	return draft, nil
}

// MarkForRemoval moves a unit to the removal side. Valid only for units that
// are currently installed in the draft or appeared in the snapshot's
// removable list.
func (s *TransitionService) MarkForRemoval(ctx context.Context, workItemID, equipmentID string) (*entities.Draft, error) {
	draft, err := s.drafts.Mutate(ctx, workItemID, func(draft *entities.Draft) error {
		var unit entities.Equipment

		if baselineID, binding := draft.BindingFor(equipmentID); baselineID != "" {
			unit = binding.ActualUnit
			delete(draft.Installed, baselineID)
		} else if candidate, ok := draft.RemovableCandidates[equipmentID]; ok {
			unit = candidate
		} else {
			return apperrors.ErrNotRemovable
		}

		unit.Provenance = entities.ProvenanceReturned
		draft.MarkedForRemoval[equipmentID] = unit
		if _, ok := draft.RemovalStatus[equipmentID]; !ok {
			draft.RemovalStatus[equipmentID] = entities.RemovalFlags{}
		}
		draft.LastSignalStatus = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSignal(ctx, equipmentID)
	return draft, nil
}

// ToggleLossFlag sets one loss marker on a removed unit. Customer property is
// silently left untouched; callers surface the explanation to the user.
// Setting any flag revokes the batch reuse toggle for the whole work item.
func (s *TransitionService) ToggleLossFlag(ctx context.Context, workItemID, equipmentID string, flag constants.RemovalFlag, value bool) (*entities.Draft, error) {
	return s.drafts.Mutate(ctx, workItemID, func(draft *entities.Draft) error {
		unit, ok := draft.MarkedForRemoval[equipmentID]
		if !ok {
			return apperrors.ErrNotFound
		}
		if unit.IsCustomerOwned() {
			s.logger.Debug("loss flag ignored for customer property",
				zap.String("work_item_id", workItemID),
				zap.String("equipment_id", equipmentID),
				zap.String("flag", flag.String()),
			)
			return nil
		}

		flags := draft.RemovalStatus[equipmentID]
		flags.Set(flag, value)
		draft.RemovalStatus[equipmentID] = flags

		if value && draft.ReuseAll {
			// One disqualifying report invalidates the batch toggle for every
			// removal record, not just this one.
			draft.ReuseAll = false
			for id, other := range draft.RemovalStatus {
				if id == equipmentID {
					continue
				}
				other.Reusable = false
				draft.RemovalStatus[id] = other
			}
		}
		return nil
	})
}

// Reuse moves a removed unit back into service against the given contract
// line. Loss flags are wiped unconditionally; reuse and loss never coexist.
func (s *TransitionService) Reuse(ctx context.Context, workItemID, equipmentID, contractBaselineID string, baseline entities.Equipment) (*entities.Draft, error) {
	return s.drafts.Mutate(ctx, workItemID, func(draft *entities.Draft) error {
		unit, ok := draft.MarkedForRemoval[equipmentID]
		if !ok {
			return apperrors.ErrNotFound
		}
		if existing, bound := draft.Installed[contractBaselineID]; bound && existing.ActualUnit.EquipmentID != equipmentID {
			return apperrors.NewConflictError(contractBaselineID, equipmentID)
		}

		delete(draft.MarkedForRemoval, equipmentID)

		unit.Provenance = entities.ProvenanceCustomerInstalled
		unit.ChangeReasonCode = constants.ChangeReasonReuse
		draft.Installed[contractBaselineID] = entities.InstalledBinding{
			ContractBaselineID: contractBaselineID,
			Baseline:           baseline,
			ActualUnit:         unit,
			MacAddress:         unit.MacAddress,
			InstallLocation:    unit.InstallLocation,
		}

		flags := entities.RemovalFlags{}
		flags.SetReusable(true)
		draft.RemovalStatus[equipmentID] = flags
		return nil
	})
}

// SetReuseAll flips the batch reuse toggle. Enabling clears every loss flag
// and marks every removal record reusable.
func (s *TransitionService) SetReuseAll(ctx context.Context, workItemID string, enabled bool) (*entities.Draft, error) {
	return s.drafts.Mutate(ctx, workItemID, func(draft *entities.Draft) error {
		draft.ReuseAll = enabled
		for id := range draft.MarkedForRemoval {
			flags := draft.RemovalStatus[id]
			flags.SetReusable(enabled)
			draft.RemovalStatus[id] = flags
		}
		return nil
	})
}

// SetSignalStatus records the latest line-signal probe result on the draft.
func (s *TransitionService) SetSignalStatus(ctx context.Context, workItemID, status string) (*entities.Draft, error) {
	return s.drafts.Mutate(ctx, workItemID, func(draft *entities.Draft) error {
		draft.LastSignalStatus = status
		return nil
	})
}

func (s *TransitionService) invalidateSignal(ctx context.Context, equipmentID string) {
	if err := s.signalCache.Invalidate(ctx, equipmentID); err != nil {
		s.logger.Warn("signal cache invalidation failed",
			zap.String("equipment_id", equipmentID),
			zap.Error(err),
		)
	}
}
