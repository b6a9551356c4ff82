package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"work-equipment-service/internal/entities"
	apperrors "work-equipment-service/pkg/errors"
)

// memDraftRepo is an in-memory stand-in for the redis draft store.
type memDraftRepo struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

func newMemDraftRepo() *memDraftRepo {
	return &memDraftRepo{drafts: make(map[string][]byte)}
}

func (r *memDraftRepo) Get(ctx context.Context, workItemID string) (*entities.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	raw, ok := r.drafts[workItemID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	draft := decodeDraft(raw)
	draft.EnsureMaps()
	return draft, nil
}

func (r *memDraftRepo) Set(ctx context.Context, workItemID string, draft *entities.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[workItemID] = encodeDraft(draft)
	return nil
}

func (r *memDraftRepo) Del(ctx context.Context, workItemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, workItemID)
	return nil
}

func encodeDraft(draft *entities.Draft) []byte {
	raw, err := json.Marshal(draft)
	if err != nil {
		panic(err)
	}
	return raw
}

func decodeDraft(raw []byte) *entities.Draft {
	var draft entities.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		panic(err)
	}
	return &draft
}

func newDraftService() (*DraftService, *memDraftRepo) {
	repo := newMemDraftRepo()
	return NewDraftService(repo, zap.NewNop()), repo
}

func installedUnit(id, category, model string) entities.Equipment {
	return entities.Equipment{
		EquipmentID:        id,
		ItemCategoryCode:   category,
		ModelCode:          model,
		Provenance:         entities.ProvenanceCustomerInstalled,
		Ownership:          entities.OwnershipCarrier,
		ServiceComponentID: "SC-" + id,
	}
}

func baselineLine(componentID, category, model string) entities.Equipment {
	return entities.Equipment{
		EquipmentID:        componentID,
		ItemCategoryCode:   category,
		ModelCode:          model,
		Provenance:         entities.ProvenanceContractBaseline,
		Ownership:          entities.OwnershipCarrier,
		ServiceComponentID: componentID,
	}
}

func TestReconcileInsertsNewInstalledUnits(t *testing.T) {
	svc, _ := newDraftService()

	snap := &Snapshot{
		ContractBaseline:  []entities.Equipment{baselineLine("SC-E1", "04", "M-400")},
		CustomerInstalled: []entities.Equipment{installedUnit("E1", "04", "M-400")},
	}

	draft, err := svc.Reconcile(context.Background(), "W1", snap)
	require.NoError(t, err)
	require.Len(t, draft.Installed, 1)
	assert.Equal(t, "E1", draft.Installed["SC-E1"].ActualUnit.EquipmentID)
}

func TestReconcileIsIdempotent(t *testing.T) {
	svc, _ := newDraftService()

	snap := &Snapshot{
		ContractBaseline: []entities.Equipment{
			baselineLine("SC-E1", "04", "M-400"),
			baselineLine("SC-E2", "05", "S-200"),
		},
		CustomerInstalled: []entities.Equipment{
			installedUnit("E1", "04", "M-400"),
			installedUnit("E2", "05", "S-200"),
		},
		Removable: []entities.Equipment{installedUnit("E3", "04", "M-400")},
	}

	first, err := svc.Reconcile(context.Background(), "W1", snap)
	require.NoError(t, err)
	second, err := svc.Reconcile(context.Background(), "W1", snap)
	require.NoError(t, err)

	assert.Equal(t, first.Installed, second.Installed)
	assert.Equal(t, first.MarkedForRemoval, second.MarkedForRemoval)
	assert.Equal(t, first.RemovableCandidates, second.RemovableCandidates)
	assert.Len(t, second.Installed, 2)
}

func TestReconcileLocalRemovalWinsOverStaleSnapshot(t *testing.T) {
	svc, _ := newDraftService()
	ctx := context.Background()

	snap := &Snapshot{
		ContractBaseline: []entities.Equipment{
			baselineLine("SC-E1", "04", "M-400"),
			baselineLine("SC-E2", "05", "S-200"),
		},
		CustomerInstalled: []entities.Equipment{
			installedUnit("E1", "04", "M-400"),
			installedUnit("E2", "05", "S-200"),
		},
	}

	_, err := svc.Reconcile(ctx, "W1", snap)
	require.NoError(t, err)

	// Technician pulls E1 out.
	_, err = svc.Mutate(ctx, "W1", func(draft *entities.Draft) error {
		unit := draft.Installed["SC-E1"].ActualUnit
		delete(draft.Installed, "SC-E1")
		draft.MarkedForRemoval["E1"] = unit
		draft.RemovalStatus["E1"] = entities.RemovalFlags{}
		return nil
	})
	require.NoError(t, err)

	// A stale snapshot still lists E1 as installed.
	draft, err := svc.Reconcile(ctx, "W1", snap)
	require.NoError(t, err)

	assert.Len(t, draft.Installed, 1)
	assert.Contains(t, draft.Installed, "SC-E2")
	assert.NotContains(t, draft.Installed, "SC-E1")
	assert.Contains(t, draft.MarkedForRemoval, "E1")
}

func TestReconcileNeverDeletesRemovalEntries(t *testing.T) {
	svc, _ := newDraftService()
	ctx := context.Background()

	_, err := svc.Mutate(ctx, "W1", func(draft *entities.Draft) error {
		draft.MarkedForRemoval["E7"] = installedUnit("E7", "04", "M-400")
		return nil
	})
	require.NoError(t, err)

	// Snapshot does not mention E7 at all.
	draft, err := svc.Reconcile(ctx, "W1", &Snapshot{})
	require.NoError(t, err)
	assert.Contains(t, draft.MarkedForRemoval, "E7")
}

func TestReconcileMovesModelMismatchToRemoval(t *testing.T) {
	svc, _ := newDraftService()

	// Contract now expects model M-500 for category 04, but the customer
	// still has an M-400 on site.
	snap := &Snapshot{
		ContractBaseline:  []entities.Equipment{baselineLine("SC-1", "04", "M-500")},
		CustomerInstalled: []entities.Equipment{installedUnit("E1", "04", "M-400")},
	}

	draft, err := svc.Reconcile(context.Background(), "W1", snap)
	require.NoError(t, err)

	assert.Empty(t, draft.Installed)
	assert.Contains(t, draft.MarkedForRemoval, "E1")
}

func TestReconcileUnbindsUnitWhenContractChanges(t *testing.T) {
	svc, _ := newDraftService()
	ctx := context.Background()

	// First visit: the customer's M-400 matches the contract and gets bound.
	first := &Snapshot{
		ContractBaseline:  []entities.Equipment{baselineLine("SC-E1", "04", "M-400")},
		CustomerInstalled: []entities.Equipment{installedUnit("E1", "04", "M-400")},
	}
	draft, err := svc.Reconcile(ctx, "W1", first)
	require.NoError(t, err)
	require.Contains(t, draft.Installed, "SC-E1")

	// The contract was re-cut upstream to expect an M-500; the unit on site
	// is unchanged. The stale binding must not survive alongside the removal.
	second := &Snapshot{
		ContractBaseline:  []entities.Equipment{baselineLine("SC-E1", "04", "M-500")},
		CustomerInstalled: []entities.Equipment{installedUnit("E1", "04", "M-400")},
	}
	draft, err = svc.Reconcile(ctx, "W1", second)
	require.NoError(t, err)

	assert.NotContains(t, draft.Installed, "SC-E1")
	assert.Empty(t, draft.Installed)
	assert.Contains(t, draft.MarkedForRemoval, "E1")

	// And the move is sticky across another run of the same snapshot.
	draft, err = svc.Reconcile(ctx, "W1", second)
	require.NoError(t, err)
	assert.Empty(t, draft.Installed)
	assert.Contains(t, draft.MarkedForRemoval, "E1")
}

func TestReconcileTreatsMissingCategoryLineAsMismatch(t *testing.T) {
	svc, _ := newDraftService()

	// The contract only describes category 05; the category 04 unit on site
	// has nothing to bind to and goes to the removal side.
	snap := &Snapshot{
		ContractBaseline:  []entities.Equipment{baselineLine("SC-E2", "05", "S-200")},
		CustomerInstalled: []entities.Equipment{installedUnit("E1", "04", "M-400")},
	}

	draft, err := svc.Reconcile(context.Background(), "W1", snap)
	require.NoError(t, err)
	assert.Empty(t, draft.Installed)
	assert.Contains(t, draft.MarkedForRemoval, "E1")
}

func TestReconcileKeepsMatchingModelInstalled(t *testing.T) {
	svc, _ := newDraftService()

	snap := &Snapshot{
		ContractBaseline:  []entities.Equipment{baselineLine("SC-E1", "04", "M-400")},
		CustomerInstalled: []entities.Equipment{installedUnit("E1", "04", "M-400")},
	}

	draft, err := svc.Reconcile(context.Background(), "W1", snap)
	require.NoError(t, err)
	assert.Contains(t, draft.Installed, "SC-E1")
	assert.Empty(t, draft.MarkedForRemoval)
}

func TestLoadReturnsEmptyDraftWhenNothingStored(t *testing.T) {
	svc, _ := newDraftService()

	draft, err := svc.Load(context.Background(), "W-missing")
	require.NoError(t, err)
	assert.Equal(t, "W-missing", draft.WorkItemID)
	assert.Empty(t, draft.Installed)
	assert.Empty(t, draft.MarkedForRemoval)
}

func TestClearDropsDraft(t *testing.T) {
	svc, repo := newDraftService()
	ctx := context.Background()

	_, err := svc.Mutate(ctx, "W1", func(draft *entities.Draft) error {
		draft.MarkedForRemoval["E1"] = installedUnit("E1", "04", "M-400")
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "W1"))
	_, err = repo.Get(ctx, "W1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMutateDoesNotPersistOnError(t *testing.T) {
	svc, _ := newDraftService()
	ctx := context.Background()

	_, err := svc.Mutate(ctx, "W1", func(draft *entities.Draft) error {
		draft.MarkedForRemoval["E1"] = installedUnit("E1", "04", "M-400")
		return apperrors.ErrBadRequest
	})
	require.ErrorIs(t, err, apperrors.ErrBadRequest)

	draft, err := svc.Load(ctx, "W1")
	require.NoError(t, err)
	assert.Empty(t, draft.MarkedForRemoval)
}
