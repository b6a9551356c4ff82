package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"work-equipment-service/internal/dto"
	"work-equipment-service/internal/entities"
	"work-equipment-service/pkg/constants"
)

func TestNormalizeAliasResolutionOrder(t *testing.T) {
	n := NewSnapshotNormalizer(zap.NewNop())

	raw := &dto.RawSnapshot{
		TechnicianStock: []dto.RawRecord{{
			"EQT_NO":         "E1",
			"EQT_SERNO":      "SN-primary",
			"SERIAL_NO":      "SN-legacy",
			"MAC_ADDR":       "mac-second",
			"TA_MAC_ADDRESS": "mac-last",
			"EQT_CL":         "legacy-model",
			"EQT_CL_CD":      "primary-model",
		}},
	}

	snap := n.Normalize(raw)
	require.Len(t, snap.TechnicianStock, 1)

	eq := snap.TechnicianStock[0]
	assert.Equal(t, "SN-primary", eq.SerialNumber)
	assert.Equal(t, "mac-second", eq.MacAddress)
	assert.Equal(t, "primary-model", eq.ModelCode)
}

func TestNormalizeFallsBackThroughAliases(t *testing.T) {
	n := NewSnapshotNormalizer(zap.NewNop())

	raw := &dto.RawSnapshot{
		TechnicianStock: []dto.RawRecord{{
			"EQT_NO":         "E1",
			"SERIAL_NO":      "SN-legacy",
			"TA_MAC_ADDRESS": "mac-last",
		}},
	}

	snap := n.Normalize(raw)
	require.Len(t, snap.TechnicianStock, 1)
	assert.Equal(t, "SN-legacy", snap.TechnicianStock[0].SerialNumber)
	assert.Equal(t, "mac-last", snap.TechnicianStock[0].MacAddress)
}

func TestNormalizeDropsRecordWithoutIDButKeepsBatch(t *testing.T) {
	n := NewSnapshotNormalizer(zap.NewNop())

	raw := &dto.RawSnapshot{
		CustomerInstalled: []dto.RawRecord{
			{"EQT_SERNO": "SN-orphan"},
			{"EQT_NO": "E2", "EQT_SERNO": "SN-2"},
			{"EQT_NO": "E3", "EQT_SERNO": "SN-3"},
		},
	}

	snap := n.Normalize(raw)
	require.Len(t, snap.CustomerInstalled, 2)
	assert.Equal(t, "E2", snap.CustomerInstalled[0].EquipmentID)
	assert.Equal(t, "E3", snap.CustomerInstalled[1].EquipmentID)
}

func TestNormalizeSyntheticBaselineID(t *testing.T) {
	n := NewSnapshotNormalizer(zap.NewNop())

	raw := &dto.RawSnapshot{
		ContractBaseline: []dto.RawRecord{
			{"ITEM_MID_CD": "04", "EQT_CL_CD": "M-400"},
		},
	}

	snap := n.Normalize(raw)
	require.Len(t, snap.ContractBaseline, 1)

	line := snap.ContractBaseline[0]
	assert.True(t, strings.HasPrefix(line.ServiceComponentID, constants.FallbackBaselinePrefix))
	assert.Equal(t, line.ServiceComponentID, line.EquipmentID)
}

func TestNormalizeOwnershipRules(t *testing.T) {
	n := NewSnapshotNormalizer(zap.NewNop())

	raw := &dto.RawSnapshot{
		TechnicianStock: []dto.RawRecord{
			{"EQT_NO": "E1", "LENT_YN": constants.LeaseCodeCustomerOwned},
			{"EQT_NO": "E2", "VOIP_CUSTOWN_EQT": "Y"},
			{"EQT_NO": "E3", "EQT_CL_CD": constants.ClassCodeCustomerModem},
			{"EQT_NO": "E4", "LENT_YN": "10"},
		},
	}

	snap := n.Normalize(raw)
	require.Len(t, snap.TechnicianStock, 4)
	assert.Equal(t, entities.OwnershipCustomer, snap.TechnicianStock[0].Ownership)
	assert.Equal(t, entities.OwnershipCustomer, snap.TechnicianStock[1].Ownership)
	assert.Equal(t, entities.OwnershipCustomer, snap.TechnicianStock[2].Ownership)
	assert.Equal(t, entities.OwnershipCarrier, snap.TechnicianStock[3].Ownership)
}

func TestNormalizeDefaultsToEmptyStrings(t *testing.T) {
	n := NewSnapshotNormalizer(zap.NewNop())

	raw := &dto.RawSnapshot{
		TechnicianStock: []dto.RawRecord{{"EQT_NO": "E1"}},
	}

	snap := n.Normalize(raw)
	require.Len(t, snap.TechnicianStock, 1)

	eq := snap.TechnicianStock[0]
	assert.Equal(t, "", eq.SerialNumber)
	assert.Equal(t, "", eq.MacAddress)
	assert.Equal(t, "", eq.ModelCode)
	assert.Equal(t, "", eq.InstallLocation)
}
