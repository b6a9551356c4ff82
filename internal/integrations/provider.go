package integrations

import (
	"context"

	"work-equipment-service/internal/dto"
	"work-equipment-service/internal/entities"
)

// SnapshotQuery identifies one work item at the upstream boundary.
type SnapshotQuery struct {
	WorkItemID     string
	ContractID     string
	TechnicianID   string
	ServiceCode    string
	MasterBranchID string
}

// SnapshotProvider fetches the raw upstream view of a work item. Providers
// return records untouched; alias resolution belongs to the normalizer.
type SnapshotProvider interface {
	Name() string
	FetchWorkSnapshot(ctx context.Context, q SnapshotQuery) (*dto.RawSnapshot, error)
}

type CommitResult struct {
	Success bool
	Code    string
	Message string
}

// CommitBoundary delivers the assembled payload to the carrier system.
// A single attempt per call; retry policy belongs to upstream operators.
type CommitBoundary interface {
	Name() string
	Commit(ctx context.Context, payload *entities.CommitPayload) (CommitResult, error)
}
