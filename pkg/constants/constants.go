package constants

//============== REMOVAL FLAGS ==============

// RemovalFlag identifies one of the loss/damage markers a technician can set
// on a unit pulled out during a visit. The wire codes are fixed by the carrier.
type RemovalFlag string

const (
	FlagEquipmentLoss RemovalFlag = "EQT_LOSS_YN"
	FlagPartLoss      RemovalFlag = "PART_LOSS_BRK_YN"
	FlagEquipmentBrk  RemovalFlag = "EQT_BRK_YN"
	FlagCableLoss     RemovalFlag = "EQT_CABL_LOSS_YN"
	FlagCradleLoss    RemovalFlag = "EQT_CRDL_LOSS_YN"
)

func (f RemovalFlag) String() string {
	return string(f)
}

// AllRemovalFlags lists every marker in commit payload order.
var AllRemovalFlags = []RemovalFlag{
	FlagEquipmentLoss,
	FlagPartLoss,
	FlagEquipmentBrk,
	FlagCableLoss,
	FlagCradleLoss,
}

//============== CHANGE REASONS ==============

// EQT_CHG_GB codes sent with each commit row.
const (
	ChangeReasonDefault = "1"
	ChangeReasonReuse   = "3"
)

//============== OWNERSHIP CODES ==============

// A unit counts as customer property when any of these match. Customer
// property never takes a removal flag and never enters a return request.
const (
	LeaseCodeCustomerOwned   = "40"
	VoipCustomerOwnedYes     = "Y"
	ClassCodeCustomerModem   = "090852"
	ArrivalInspectionPending = "A"
)

//============== COMMIT FALLBACKS ==============

// Defaults applied to commit rows when the snapshot left a field empty.
const (
	FallbackLeaseCode       = "10"
	FallbackInstallmentCode = "00"
	FallbackUseStatusCode   = "1"
	FallbackBaselinePrefix  = "cb-"
)

//============== CATEGORIES ==============

// Display categories in sort rank order.
const (
	CategoryOwned             = "OWNED"
	CategoryInspectionWaiting = "INSPECTION_WAITING"
	CategoryReturnRequested   = "RETURN_REQUESTED"
)

// CategoryRank orders the technician inventory view.
var CategoryRank = map[string]int{
	CategoryOwned:             1,
	CategoryInspectionWaiting: 2,
	CategoryReturnRequested:   3,
}

//============== CACHE KEYS ==============

// Redis key layouts.
const (
	// Default prefix for draft documents, one per work item.
	// Format: work_equipment_draft_<workItemID> -> JSON draft
	DraftKeyPrefix = "work_equipment_draft_"

	// Cached signal status for a unit, dropped whenever the unit moves.
	// Format: signal_status:<equipmentID> -> JSON
	CacheKeySignalStatus = "signal_status:%s"
)
