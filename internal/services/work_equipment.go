package services

import (
	"context"

	"go.uber.org/zap"

	"work-equipment-service/internal/dto"
	"work-equipment-service/internal/entities"
	"work-equipment-service/internal/integrations"
	apperrors "work-equipment-service/pkg/errors"
	"work-equipment-service/pkg/utils"
)

// WorkEquipmentService orchestrates a work-item session: snapshot refresh,
// unit materialization for transitions, and the combined state view.
type WorkEquipmentService struct {
	registry       integrations.RegistryInterface
	normalizer     *SnapshotNormalizer
	drafts         *DraftService
	transitions    *TransitionService
	inventory      *InventoryService
	returnRequests *ReturnRequestService
	logger         *zap.Logger
}

func NewWorkEquipmentService(
	registry integrations.RegistryInterface,
	normalizer *SnapshotNormalizer,
	drafts *DraftService,
	transitions *TransitionService,
	inventory *InventoryService,
	returnRequests *ReturnRequestService,
	logger *zap.Logger,
) *WorkEquipmentService {
	return &WorkEquipmentService{
		registry:       registry,
		normalizer:     normalizer,
		drafts:         drafts,
		transitions:    transitions,
		inventory:      inventory,
		returnRequests: returnRequests,
		logger:         logger,
	}
}

// Refresh fetches the authoritative snapshot and reconciles it into the
// draft. Returns both so callers can serve the combined view in one trip.
func (s *WorkEquipmentService) Refresh(ctx context.Context, q integrations.SnapshotQuery) (*entities.Draft, *Snapshot, error) {
	provider, err := s.registry.GetActive()
	if err != nil {
		return nil, nil, err
	}

	raw, err := provider.FetchWorkSnapshot(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	snapshot := s.normalizer.Normalize(raw)
	draft, err := s.drafts.Reconcile(ctx, q.WorkItemID, snapshot)
	if err != nil {
		return nil, nil, err
	}
	return draft, snapshot, nil
}

// Install binds a unit from the fresh snapshot to a contract line. The unit
// must exist in technician stock or the customer-installed list.
func (s *WorkEquipmentService) Install(ctx context.Context, q integrations.SnapshotQuery, payload dto.InstallEquipmentDTO) (*entities.Draft, error) {
	_, snapshot, err := s.Refresh(ctx, q)
	if err != nil {
		return nil, err
	}

	unit, ok := findUnit(snapshot, payload.EquipmentID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	baseline, ok := findBaseline(snapshot, payload.ContractBaselineID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s.transitions.Install(ctx, q.WorkItemID, entities.InstalledBinding{
		ContractBaselineID: payload.ContractBaselineID,
		Baseline:           baseline,
		ActualUnit:         unit,
		MacAddress:         utils.FirstNonEmpty(payload.MacAddress, unit.MacAddress),
		InstallLocation:    utils.FirstNonEmpty(payload.InstallLocation, unit.InstallLocation),
	})
}

// Reuse reinstates a removed unit against a contract line.
func (s *WorkEquipmentService) Reuse(ctx context.Context, q integrations.SnapshotQuery, payload dto.ReuseEquipmentDTO) (*entities.Draft, error) {
	_, snapshot, err := s.Refresh(ctx, q)
	if err != nil {
		return nil, err
	}

	baseline, ok := findBaseline(snapshot, payload.ContractBaselineID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s.transitions.Reuse(ctx, q.WorkItemID, payload.EquipmentID, payload.ContractBaselineID, baseline)
}

// State builds the full work-item view: draft contents, the classified
// inventory, and the deduplicated return queue.
func (s *WorkEquipmentService) State(ctx context.Context, q integrations.SnapshotQuery) (*dto.WorkStateDTO, error) {
	draft, snapshot, err := s.Refresh(ctx, q)
	if err != nil {
		return nil, err
	}

	groups, err := s.returnRequests.List(ctx, q.TechnicianID)
	if err != nil {
		return nil, err
	}

	units := make([]entities.Equipment, 0, len(snapshot.TechnicianStock))
	units = append(units, snapshot.TechnicianStock...)

	state := &dto.WorkStateDTO{
		WorkItemID:       q.WorkItemID,
		Installed:        make([]entities.InstalledBinding, 0, len(draft.Installed)),
		MarkedForRemoval: make([]dto.RemovalRecordDTO, 0, len(draft.MarkedForRemoval)),
		Inventory:        s.inventory.BuildInventoryView(units, groups),
		ReturnRequests:   groups,
		ReuseAll:         draft.ReuseAll,
		LastSignalStatus: draft.LastSignalStatus,
	}

	for _, binding := range draft.Installed {
		state.Installed = append(state.Installed, binding)
	}
	for id, unit := range draft.MarkedForRemoval {
		state.MarkedForRemoval = append(state.MarkedForRemoval, dto.RemovalRecordDTO{
			Unit:  unit,
			Flags: draft.RemovalStatus[id],
		})
	}
	return state, nil
}

// Discard drops the draft without committing. The next load starts empty.
func (s *WorkEquipmentService) Discard(ctx context.Context, workItemID string) error {
	return s.drafts.Clear(ctx, workItemID)
}

func findUnit(snapshot *Snapshot, equipmentID string) (entities.Equipment, bool) {
	for _, list := range [][]entities.Equipment{snapshot.TechnicianStock, snapshot.CustomerInstalled, snapshot.Removable} {
		for _, eq := range list {
			if eq.EquipmentID == equipmentID {
				return eq, true
			}
		}
	}
	return entities.Equipment{}, false
}

func findBaseline(snapshot *Snapshot, contractBaselineID string) (entities.Equipment, bool) {
	for _, line := range snapshot.ContractBaseline {
		if line.ServiceComponentID == contractBaselineID {
			return line, true
		}
	}
	return entities.Equipment{}, false
}
