package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"work-equipment-service/internal/entities"
	"work-equipment-service/internal/integrations"
	"work-equipment-service/pkg/constants"
	apperrors "work-equipment-service/pkg/errors"
)

type fakeBoundary struct {
	mu       sync.Mutex
	result   integrations.CommitResult
	err      error
	payloads []*entities.CommitPayload
	block    chan struct{}
}

func (b *fakeBoundary) Name() string { return "fake" }

func (b *fakeBoundary) Commit(ctx context.Context, payload *entities.CommitPayload) (integrations.CommitResult, error) {
	if b.block != nil {
		<-b.block
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payloads = append(b.payloads, payload)
	return b.result, b.err
}

type memAuditRepo struct {
	mu     sync.Mutex
	audits []entities.CommitAudit
}

func (r *memAuditRepo) Record(ctx context.Context, audit entities.CommitAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, audit)
	return nil
}

func (r *memAuditRepo) ListByWorkItem(ctx context.Context, workItemID string) ([]entities.CommitAudit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.audits, nil
}

func newCompletionService(boundary *fakeBoundary) (*CompletionService, *DraftService, *memAuditRepo) {
	drafts, _ := newDraftService()
	audit := &memAuditRepo{}
	return NewCompletionService(drafts, boundary, audit, zap.NewNop()), drafts, audit
}

func seedCommitDraft(t *testing.T, drafts *DraftService) {
	t.Helper()
	_, err := drafts.Mutate(context.Background(), "W1", func(draft *entities.Draft) error {
		draft.Installed["SC-1"] = entities.InstalledBinding{
			ContractBaselineID: "SC-1",
			ActualUnit:         installedUnit("E1", "04", "M-400"),
			MacAddress:         "AA:BB",
			InstallLocation:    "hall",
		}
		removed := installedUnit("E2", "05", "S-200")
		draft.MarkedForRemoval["E2"] = removed
		flags := entities.RemovalFlags{}
		flags.Set(constants.FlagCableLoss, true)
		draft.RemovalStatus["E2"] = flags
		return nil
	})
	require.NoError(t, err)
}

func TestAssemblePopulatesFallbacks(t *testing.T) {
	svc, drafts, _ := newCompletionService(&fakeBoundary{})
	seedCommitDraft(t, drafts)

	draft, err := drafts.Load(context.Background(), "W1")
	require.NoError(t, err)

	payload, err := svc.Assemble(draft, "T1")
	require.NoError(t, err)
	require.Len(t, payload.Rows, 2)

	install := payload.Rows[0]
	assert.Equal(t, entities.DirectionInstall, install.Direction)
	assert.Equal(t, constants.FallbackLeaseCode, install.LeaseCode)
	assert.Equal(t, constants.FallbackInstallmentCode, install.InstallmentCode)
	assert.Equal(t, constants.FallbackUseStatusCode, install.UseStatusCode)
	assert.Equal(t, constants.ChangeReasonDefault, install.ChangeReasonCode)
	assert.Equal(t, "AA:BB", install.MacAddress)

	removal := payload.Rows[1]
	assert.Equal(t, entities.DirectionRemove, removal.Direction)
	assert.Equal(t, "1", removal.CableLoss)
	assert.Equal(t, "0", removal.EquipmentLoss)
	assert.Equal(t, "0", removal.ReuseFlag)
}

func TestAssembleFlagsAreNeverBlank(t *testing.T) {
	svc, drafts, _ := newCompletionService(&fakeBoundary{})
	seedCommitDraft(t, drafts)

	draft, err := drafts.Load(context.Background(), "W1")
	require.NoError(t, err)

	payload, err := svc.Assemble(draft, "T1")
	require.NoError(t, err)

	for _, row := range payload.Rows {
		for _, v := range []string{row.EquipmentLoss, row.PartLoss, row.EquipmentBrk, row.CableLoss, row.CradleLoss, row.ReuseFlag} {
			assert.Contains(t, []string{"0", "1"}, v)
		}
	}
}

func TestAssembleRejectsCustomerOwnedLoss(t *testing.T) {
	svc, drafts, _ := newCompletionService(&fakeBoundary{})
	ctx := context.Background()

	_, err := drafts.Mutate(ctx, "W1", func(draft *entities.Draft) error {
		unit := installedUnit("E1", "04", "M-400")
		unit.Ownership = entities.OwnershipCustomer
		draft.MarkedForRemoval["E1"] = unit
		// Bypasses the engine guard on purpose: the assembler is the last gate.
		draft.RemovalStatus["E1"] = entities.RemovalFlags{Lost: true}
		return nil
	})
	require.NoError(t, err)

	draft, err := drafts.Load(ctx, "W1")
	require.NoError(t, err)

	_, err = svc.Assemble(draft, "T1")
	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "E1", validation.EquipmentID)
}

func TestAssembleRejectsReusableWithLoss(t *testing.T) {
	svc, drafts, _ := newCompletionService(&fakeBoundary{})
	ctx := context.Background()

	_, err := drafts.Mutate(ctx, "W1", func(draft *entities.Draft) error {
		draft.MarkedForRemoval["E1"] = installedUnit("E1", "04", "M-400")
		draft.RemovalStatus["E1"] = entities.RemovalFlags{Lost: true, Reusable: true}
		return nil
	})
	require.NoError(t, err)

	draft, err := drafts.Load(ctx, "W1")
	require.NoError(t, err)

	_, err = svc.Assemble(draft, "T1")
	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestAssembleRejectsUnitOnBothSides(t *testing.T) {
	svc, drafts, _ := newCompletionService(&fakeBoundary{})
	ctx := context.Background()

	_, err := drafts.Mutate(ctx, "W1", func(draft *entities.Draft) error {
		unit := installedUnit("E1", "04", "M-400")
		draft.Installed["SC-1"] = entities.InstalledBinding{
			ContractBaselineID: "SC-1",
			ActualUnit:         unit,
		}
		draft.MarkedForRemoval["E1"] = unit
		draft.RemovalStatus["E1"] = entities.RemovalFlags{}
		return nil
	})
	require.NoError(t, err)

	draft, err := drafts.Load(ctx, "W1")
	require.NoError(t, err)

	// A physical unit must never produce an install row and a removal row in
	// the same payload.
	_, err = svc.Assemble(draft, "T1")
	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "E1", validation.EquipmentID)
}

func TestCommitClearsDraftOnSuccess(t *testing.T) {
	boundary := &fakeBoundary{result: integrations.CommitResult{Success: true, Code: "0000"}}
	svc, drafts, audit := newCompletionService(boundary)
	seedCommitDraft(t, drafts)
	ctx := context.Background()

	result, rowCount, err := svc.Commit(ctx, "W1", "T1")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, rowCount)

	draft, err := drafts.Load(ctx, "W1")
	require.NoError(t, err)
	assert.Empty(t, draft.Installed)
	assert.Empty(t, draft.MarkedForRemoval)

	require.Len(t, audit.audits, 1)
	assert.True(t, audit.audits[0].Success)
}

func TestCommitFailureLeavesDraftUntouched(t *testing.T) {
	boundary := &fakeBoundary{result: integrations.CommitResult{Success: false, Code: "E999", Message: "rejected"}}
	svc, drafts, audit := newCompletionService(boundary)
	seedCommitDraft(t, drafts)
	ctx := context.Background()

	_, _, err := svc.Commit(ctx, "W1", "T1")
	require.ErrorIs(t, err, apperrors.ErrCommitRejected)

	draft, err := drafts.Load(ctx, "W1")
	require.NoError(t, err)
	assert.Len(t, draft.Installed, 1)
	assert.Len(t, draft.MarkedForRemoval, 1)

	require.Len(t, audit.audits, 1)
	assert.False(t, audit.audits[0].Success)
}

func TestCommitEmptyDraftRejected(t *testing.T) {
	svc, _, _ := newCompletionService(&fakeBoundary{})

	_, _, err := svc.Commit(context.Background(), "W-empty", "T1")
	assert.ErrorIs(t, err, apperrors.ErrDraftNotFound)
}

func TestCommitIsSingleFlightPerWorkItem(t *testing.T) {
	boundary := &fakeBoundary{
		result: integrations.CommitResult{Success: true, Code: "0000"},
		block:  make(chan struct{}),
	}
	svc, drafts, _ := newCompletionService(boundary)
	seedCommitDraft(t, drafts)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, _, err := svc.Commit(ctx, "W1", "T1")
		done <- err
	}()

	// Wait until the first commit holds the latch.
	require.Eventually(t, func() bool {
		_, _, err := svc.Commit(ctx, "W1", "T1")
		return errors.Is(err, apperrors.ErrCommitInFlight)
	}, time.Second, time.Millisecond)

	close(boundary.block)
	require.NoError(t, <-done)
}
