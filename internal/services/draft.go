package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"work-equipment-service/internal/entities"
	"work-equipment-service/internal/repositories"
	apperrors "work-equipment-service/pkg/errors"
	"work-equipment-service/pkg/utils"
)

// DraftService owns the per-work-item draft documents. Every read-modify-
// write cycle runs under the work item's keyed mutex, so reconciliation and
// user transitions never interleave for the same work item.
type DraftService struct {
	draftRepository repositories.DraftRepositoryInterface
	locks           *utils.KeyMutex
	logger          *zap.Logger
}

func NewDraftService(draftRepository repositories.DraftRepositoryInterface, logger *zap.Logger) *DraftService {
	return &DraftService{
		draftRepository: draftRepository,
		locks:           utils.NewKeyMutex(),
		logger:          logger,
	}
}

// Load returns the persisted draft, or a fresh empty one when nothing is
// stored. Safe to call repeatedly.
func (s *DraftService) Load(ctx context.Context, workItemID string) (*entities.Draft, error) {
	draft, err := s.draftRepository.Get(ctx, workItemID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return entities.NewDraft(workItemID), nil
	}
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// Mutate runs fn against the current draft under the work-item lock and
// persists the result before returning. If fn fails the draft is not saved.
func (s *DraftService) Mutate(ctx context.Context, workItemID string, fn func(draft *entities.Draft) error) (*entities.Draft, error) {
	s.locks.Lock(workItemID)
	defer s.locks.Unlock(workItemID)

	draft, err := s.Load(ctx, workItemID)
	if err != nil {
		return nil, err
	}

	if err := fn(draft); err != nil {
		return nil, err
	}

	draft.LastUpdated = time.Now()
	if err := s.draftRepository.Set(ctx, workItemID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Reconcile merges an authoritative snapshot into the stored draft. Local
// removal decisions always win over a stale snapshot, and a second run with
// the same snapshot is a no-op.
func (s *DraftService) Reconcile(ctx context.Context, workItemID string, snapshot *Snapshot) (*entities.Draft, error) {
	return s.Mutate(ctx, workItemID, func(draft *entities.Draft) error {
		s.mergeSnapshot(draft, snapshot)
		return nil
	})
}

func (s *DraftService) mergeSnapshot(draft *entities.Draft, snapshot *Snapshot) {
	// Refresh the removable candidate set from the snapshot. Existing entries
	// are kept so a unit marked from an older snapshot stays valid.
	for _, eq := range snapshot.Removable {
		draft.RemovableCandidates[eq.EquipmentID] = eq
	}

	baselineByID := make(map[string]entities.Equipment, len(snapshot.ContractBaseline))
	for _, line := range snapshot.ContractBaseline {
		baselineByID[line.ServiceComponentID] = line
	}

	for _, eq := range snapshot.CustomerInstalled {
		// A unit the technician already pulled out never comes back through
		// reconciliation, no matter what the snapshot says.
		if _, removed := draft.MarkedForRemoval[eq.EquipmentID]; removed {
			continue
		}

		// A customer unit whose model no longer matches any baseline line of
		// its category was swapped upstream; move it to the removal side
		// rather than keeping a phantom binding.
		if s.modelMismatch(eq, snapshot.ContractBaseline) {
			s.logger.Info("snapshot unit no longer matches contract, moving to removal",
				zap.String("work_item_id", draft.WorkItemID),
				zap.String("equipment_id", eq.EquipmentID),
				zap.String("model_code", eq.ModelCode),
			)
			// An earlier reconcile may have bound this unit; a unit never sits
			// on both sides of the draft.
			if boundID, _ := draft.BindingFor(eq.EquipmentID); boundID != "" {
				delete(draft.Installed, boundID)
			}
			draft.MarkedForRemoval[eq.EquipmentID] = eq
			if _, ok := draft.RemovalStatus[eq.EquipmentID]; !ok {
				draft.RemovalStatus[eq.EquipmentID] = entities.RemovalFlags{}
			}
			continue
		}

		baselineID := eq.ServiceComponentID
		if baselineID == "" {
			baselineID = eq.EquipmentID
		}
		if _, bound := draft.Installed[baselineID]; bound {
			continue
		}
		// Skip if this physical unit is already bound elsewhere in the draft.
		if id, _ := draft.BindingFor(eq.EquipmentID); id != "" {
			continue
		}

		draft.Installed[baselineID] = entities.InstalledBinding{
			ContractBaselineID: baselineID,
			Baseline:           baselineByID[baselineID],
			ActualUnit:         eq,
			MacAddress:         eq.MacAddress,
			InstallLocation:    eq.InstallLocation,
		}
	}
}

// modelMismatch reports whether a customer-installed unit's model matches no
// contract-baseline line of the same category. A category the contract does
// not list at all is a mismatch too. Units without a model code and customer
// property are exempt.
func (s *DraftService) modelMismatch(eq entities.Equipment, baseline []entities.Equipment) bool {
	if eq.ModelCode == "" || eq.IsCustomerOwned() {
		return false
	}
	for _, line := range baseline {
		if line.ItemCategoryCode != eq.ItemCategoryCode {
			continue
		}
		if line.ModelCode == "" || line.ModelCode == eq.ModelCode {
			return false
		}
	}
	return true
}

// Save persists the draft outside a Mutate cycle. Used by callers that
// already hold a materialized draft, still serialized per work item.
func (s *DraftService) Save(ctx context.Context, workItemID string, draft *entities.Draft) error {
	s.locks.Lock(workItemID)
	defer s.locks.Unlock(workItemID)

	draft.LastUpdated = time.Now()
	return s.draftRepository.Set(ctx, workItemID, draft)
}

// Clear drops the draft. Called only after a confirmed successful commit or
// an explicit discard.
func (s *DraftService) Clear(ctx context.Context, workItemID string) error {
	s.locks.Lock(workItemID)
	defer s.locks.Unlock(workItemID)

	return s.draftRepository.Del(ctx, workItemID)
}
