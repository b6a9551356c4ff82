package provisioning

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"work-equipment-service/internal/dto"
	"work-equipment-service/internal/entities"
	"work-equipment-service/internal/integrations"
)

// Provider talks to the carrier provisioning gateway. It implements both the
// snapshot and the commit side of the boundary.
type Provider struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Provider {
	return &Provider{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger.Named("provisioning_provider"),
	}
}

func (p *Provider) Name() string {
	return "carrier"
}

func (p *Provider) FetchWorkSnapshot(ctx context.Context, q integrations.SnapshotQuery) (*dto.RawSnapshot, error) {
	body := map[string]string{
		"WRK_ODR_ITM_ID": q.WorkItemID,
		"CUST_CNRT_ID":   q.ContractID,
		"WORKER_ID":      q.TechnicianID,
		"SVC_CD":         q.ServiceCode,
		"MST_BRANCH_ID":  q.MasterBranchID,
	}

	raw, err := p.postJSON(ctx, "/customer/work/getCustProdInfo", body)
	if err != nil {
		return nil, fmt.Errorf("snapshot fetch for work item %s: %w", q.WorkItemID, err)
	}

	snapshot, err := mapSnapshotResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("snapshot decode for work item %s: %w", q.WorkItemID, err)
	}

	p.logger.Debug("snapshot fetched",
		zap.String("work_item_id", q.WorkItemID),
		zap.Int("contract_baseline", len(snapshot.ContractBaseline)),
		zap.Int("technician_stock", len(snapshot.TechnicianStock)),
		zap.Int("customer_installed", len(snapshot.CustomerInstalled)),
		zap.Int("removable", len(snapshot.Removable)),
	)
	return snapshot, nil
}

func (p *Provider) Commit(ctx context.Context, payload *entities.CommitPayload) (integrations.CommitResult, error) {
	body := map[string]interface{}{
		"WRK_ODR_ITM_ID": payload.WorkItemID,
		"WORKER_ID":      payload.TechnicianID,
		"input1":         payload.Rows,
	}

	raw, err := p.postJSON(ctx, "/customer/work/setWorkEquipment", body)
	if err != nil {
		return integrations.CommitResult{}, fmt.Errorf("commit for work item %s: %w", payload.WorkItemID, err)
	}

	return mapCommitResponse(raw)
}
