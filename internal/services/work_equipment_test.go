package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"work-equipment-service/internal/dto"
	"work-equipment-service/internal/integrations"
	"work-equipment-service/internal/integrations/mock"
	"work-equipment-service/pkg/constants"
	apperrors "work-equipment-service/pkg/errors"
)

func newWorkEquipmentService(t *testing.T) *WorkEquipmentService {
	t.Helper()

	registry := integrations.NewRegistry()
	require.NoError(t, registry.Register(mock.NewMockProvider()))
	require.NoError(t, registry.SetActive("mock"))

	drafts, _ := newDraftService()
	cache := newMemSignalCache()
	transitions := NewTransitionService(drafts, cache, zap.NewNop())
	inventory := NewInventoryService(zap.NewNop())
	returnRequests := NewReturnRequestService(&memReturnRequestRepo{}, drafts, inventory, zap.NewNop())

	return NewWorkEquipmentService(
		registry,
		NewSnapshotNormalizer(zap.NewNop()),
		drafts,
		transitions,
		inventory,
		returnRequests,
		zap.NewNop(),
	)
}

func TestRefreshReconcilesMockSnapshot(t *testing.T) {
	svc := newWorkEquipmentService(t)

	q := integrations.SnapshotQuery{WorkItemID: "W1", TechnicianID: "T1"}
	draft, snapshot, err := svc.Refresh(context.Background(), q)
	require.NoError(t, err)

	// The mock serves one customer-installed unit bound to SC-1001.
	assert.Contains(t, draft.Installed, "SC-1001")
	assert.Contains(t, draft.RemovableCandidates, "EQ-5001")
	assert.Len(t, snapshot.TechnicianStock, 2)
}

func TestInstallFromTechnicianStock(t *testing.T) {
	svc := newWorkEquipmentService(t)
	q := integrations.SnapshotQuery{WorkItemID: "W1", TechnicianID: "T1"}

	draft, err := svc.Install(context.Background(), q, dto.InstallEquipmentDTO{
		ContractBaselineID: "SC-1002",
		EquipmentID:        "EQ-9002",
		InstallLocation:    "bedroom",
	})
	require.NoError(t, err)

	require.Contains(t, draft.Installed, "SC-1002")
	binding := draft.Installed["SC-1002"]
	assert.Equal(t, "EQ-9002", binding.ActualUnit.EquipmentID)
	assert.Equal(t, "bedroom", binding.InstallLocation)
}

func TestInstallUnknownUnitFails(t *testing.T) {
	svc := newWorkEquipmentService(t)
	q := integrations.SnapshotQuery{WorkItemID: "W1", TechnicianID: "T1"}

	_, err := svc.Install(context.Background(), q, dto.InstallEquipmentDTO{
		ContractBaselineID: "SC-1002",
		EquipmentID:        "EQ-nope",
	})
	assert.Error(t, err)
}

func TestInstallUnknownContractLineFails(t *testing.T) {
	svc := newWorkEquipmentService(t)
	ctx := context.Background()
	q := integrations.SnapshotQuery{WorkItemID: "W1", TechnicianID: "T1"}

	_, err := svc.Install(ctx, q, dto.InstallEquipmentDTO{
		ContractBaselineID: "SC-nope",
		EquipmentID:        "EQ-9001",
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	// No junk binding against a line the contract does not have.
	draft, err := svc.drafts.Load(ctx, "W1")
	require.NoError(t, err)
	assert.NotContains(t, draft.Installed, "SC-nope")
}

func TestReuseUnknownContractLineFails(t *testing.T) {
	svc := newWorkEquipmentService(t)
	ctx := context.Background()
	q := integrations.SnapshotQuery{WorkItemID: "W1", TechnicianID: "T1"}

	_, err := svc.Reuse(ctx, q, dto.ReuseEquipmentDTO{
		ContractBaselineID: "SC-nope",
		EquipmentID:        "EQ-5001",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStateClassifiesInventory(t *testing.T) {
	svc := newWorkEquipmentService(t)
	q := integrations.SnapshotQuery{WorkItemID: "W1", TechnicianID: "T1"}

	state, err := svc.State(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "W1", state.WorkItemID)
	require.Len(t, state.Inventory, 2)

	// The stock modem is plain owned; the set-top carries the arrival
	// sentinel and lands in the inspection queue after it.
	assert.Equal(t, constants.CategoryOwned, state.Inventory[0].Category)
	assert.Equal(t, "EQ-9001", state.Inventory[0].Equipment.EquipmentID)
	assert.Equal(t, constants.CategoryInspectionWaiting, state.Inventory[1].Category)
	assert.Equal(t, "EQ-9002", state.Inventory[1].Equipment.EquipmentID)
}

func TestDiscardDropsDraft(t *testing.T) {
	svc := newWorkEquipmentService(t)
	ctx := context.Background()
	q := integrations.SnapshotQuery{WorkItemID: "W1", TechnicianID: "T1"}

	_, _, err := svc.Refresh(ctx, q)
	require.NoError(t, err)
	require.NoError(t, svc.Discard(ctx, "W1"))

	draft, err := svc.drafts.Load(ctx, "W1")
	require.NoError(t, err)
	assert.Empty(t, draft.Installed)
}
