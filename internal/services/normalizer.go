package services

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"work-equipment-service/internal/dto"
	"work-equipment-service/internal/entities"
	"work-equipment-service/pkg/constants"
)

// Alias resolution order per canonical field. Older endpoint generations use
// the later names; the first populated key wins.
var (
	aliasEquipmentID   = []string{"EQT_NO"}
	aliasSerial        = []string{"EQT_SERNO", "SERIAL_NO"}
	aliasMac           = []string{"MAC_ADDRESS", "MAC_ADDR", "MAC", "TA_MAC_ADDRESS"}
	aliasModelCode     = []string{"EQT_CL_CD", "EQT_CL"}
	aliasModelName     = []string{"EQT_CL_NM", "EQT_TYPE"}
	aliasCategory      = []string{"ITEM_MID_CD"}
	aliasBaselineID    = []string{"SVC_CMPS_ID", "PROD_CMPS_ID"}
	aliasInstallLoc    = []string{"INSTL_LOC", "INSTALL_LOC"}
	aliasLeaseCode     = []string{"LENT_YN"}
	aliasVoipOwned     = []string{"VOIP_CUSTOWN_EQT"}
	aliasArrival       = []string{"EQT_USE_ARR_YN"}
	aliasChangeReason  = []string{"EQT_CHG_GB"}
	aliasProductCode   = []string{"PROD_CD"}
	aliasServiceCode   = []string{"SVC_CD"}
	aliasMasterBranch  = []string{"MST_BRANCH_ID"}
	aliasBranch        = []string{"BRANCH_ID"}
	aliasSaleAmount    = []string{"SALE_AMT"}
	aliasBasicProdCmps = []string{"PROD_CMPS_ID"}
)

// Snapshot is the normalized view of one upstream fetch.
type Snapshot struct {
	ContractBaseline  []entities.Equipment
	TechnicianStock   []entities.Equipment
	CustomerInstalled []entities.Equipment
	Removable         []entities.Equipment
}

// SnapshotNormalizer turns raw alias-keyed records into canonical equipment
// records. It is pure apart from logging and never mutates drafts.
type SnapshotNormalizer struct {
	logger *zap.Logger
}

func NewSnapshotNormalizer(logger *zap.Logger) *SnapshotNormalizer {
	return &SnapshotNormalizer{logger: logger.Named("normalizer")}
}

func (n *SnapshotNormalizer) Normalize(raw *dto.RawSnapshot) *Snapshot {
	return &Snapshot{
		ContractBaseline:  n.normalizeList(raw.ContractBaseline, entities.ProvenanceContractBaseline),
		TechnicianStock:   n.normalizeList(raw.TechnicianStock, ""),
		CustomerInstalled: n.normalizeList(raw.CustomerInstalled, entities.ProvenanceCustomerInstalled),
		Removable:         n.normalizeList(raw.Removable, entities.ProvenanceReturned),
	}
}

// normalizeList converts one output list. A record without a usable identity
// is dropped with a warning; the rest of the batch continues.
func (n *SnapshotNormalizer) normalizeList(records []dto.RawRecord, provenance string) []entities.Equipment {
	out := make([]entities.Equipment, 0, len(records))
	for _, record := range records {
		eq, ok := n.normalizeRecord(record, provenance)
		if !ok {
			continue
		}
		out = append(out, eq)
	}
	return out
}

func (n *SnapshotNormalizer) normalizeRecord(record dto.RawRecord, provenance string) (entities.Equipment, bool) {
	eq := entities.Equipment{
		EquipmentID:      record.Value(aliasEquipmentID...),
		ItemCategoryCode: record.Value(aliasCategory...),
		ModelCode:        record.Value(aliasModelCode...),
		ModelName:        record.Value(aliasModelName...),
		SerialNumber:     record.Value(aliasSerial...),
		MacAddress:       record.Value(aliasMac...),
		InstallLocation:  record.Value(aliasInstallLoc...),
		Provenance:       provenance,
		ChangeReasonCode: record.Value(aliasChangeReason...),
		ArrivalFlag:      record.Value(aliasArrival...),

		ServiceComponentID:      record.Value(aliasBaselineID...),
		BasicProductComponentID: record.Value(aliasBasicProdCmps...),
		ProductCode:             record.Value(aliasProductCode...),
		ServiceCode:             record.Value(aliasServiceCode...),
		MasterBranchID:          record.Value(aliasMasterBranch...),
		BranchID:                record.Value(aliasBranch...),
		LeaseCode:               record.Value(aliasLeaseCode...),
		SaleAmount:              record.Value(aliasSaleAmount...),
		VoipCustomerOwned:       record.Value(aliasVoipOwned...),
	}

	if provenance == entities.ProvenanceContractBaseline {
		// Baseline lines are contract positions, not physical units. A line
		// without a component id gets a synthetic one so bindings can key on it.
		if eq.ServiceComponentID == "" {
			eq.ServiceComponentID = constants.FallbackBaselinePrefix + uuid.NewString()
		}
		eq.EquipmentID = eq.ServiceComponentID
	} else if eq.EquipmentID == "" {
		n.logger.Warn("record dropped: no equipment id",
			zap.String("provenance", provenance),
			zap.String("serial", eq.SerialNumber),
			zap.String("model_code", eq.ModelCode),
		)
		return entities.Equipment{}, false
	}

	eq.Ownership = entities.OwnershipCarrier
	if eq.LeaseCode == constants.LeaseCodeCustomerOwned ||
		eq.VoipCustomerOwned == constants.VoipCustomerOwnedYes ||
		eq.ModelCode == constants.ClassCodeCustomerModem {
		eq.Ownership = entities.OwnershipCustomer
	}

	if eq.SerialNumber == "" && eq.MacAddress == "" {
		n.logger.Warn("record has neither serial nor mac",
			zap.String("equipment_id", eq.EquipmentID),
			zap.String("provenance", provenance),
		)
	}

	return eq, true
}
