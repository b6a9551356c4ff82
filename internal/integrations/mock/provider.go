package mock

import (
	"context"
	"errors"

	"work-equipment-service/internal/dto"
	"work-equipment-service/internal/entities"
	"work-equipment-service/internal/integrations"
)

// MockProvider serves a fixed snapshot and accepts every commit. Used in
// local deployments and controller tests.
type MockProvider struct {
	ShouldFail bool
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) FetchWorkSnapshot(ctx context.Context, q integrations.SnapshotQuery) (*dto.RawSnapshot, error) {
	if m.ShouldFail {
		return nil, errors.New("mock provider configured to fail")
	}

	return &dto.RawSnapshot{
		ContractBaseline: []dto.RawRecord{
			{"SVC_CMPS_ID": "SC-1001", "ITEM_MID_CD": "04", "EQT_CL_CD": "M-400", "EQT_CL_NM": "Modem M-400", "LENT_YN": "10"},
			{"SVC_CMPS_ID": "SC-1002", "ITEM_MID_CD": "05", "EQT_CL_CD": "S-200", "EQT_CL_NM": "Set-top S-200", "LENT_YN": "10"},
		},
		TechnicianStock: []dto.RawRecord{
			{"EQT_NO": "EQ-9001", "ITEM_MID_CD": "04", "EQT_CL_CD": "M-400", "EQT_CL_NM": "Modem M-400", "EQT_SERNO": "SN9001", "MAC_ADDRESS": "AA:00:00:00:90:01"},
			{"EQT_NO": "EQ-9002", "ITEM_MID_CD": "05", "EQT_CL_CD": "S-200", "EQT_CL_NM": "Set-top S-200", "EQT_SERNO": "SN9002", "EQT_USE_ARR_YN": "A"},
		},
		CustomerInstalled: []dto.RawRecord{
			{"EQT_NO": "EQ-5001", "ITEM_MID_CD": "04", "EQT_CL_CD": "M-400", "EQT_SERNO": "SN5001", "MAC_ADDR": "AA:00:00:00:50:01", "SVC_CMPS_ID": "SC-1001"},
		},
		Removable: []dto.RawRecord{
			{"EQT_NO": "EQ-5001", "ITEM_MID_CD": "04", "EQT_CL_CD": "M-400", "EQT_SERNO": "SN5001"},
		},
	}, nil
}

func (m *MockProvider) Commit(ctx context.Context, payload *entities.CommitPayload) (integrations.CommitResult, error) {
	if m.ShouldFail {
		return integrations.CommitResult{}, errors.New("mock boundary configured to fail")
	}
	return integrations.CommitResult{Success: true, Code: "0000", Message: "accepted"}, nil
}
