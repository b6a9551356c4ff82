package entities

import "work-equipment-service/pkg/constants"

// Provenance: where a unit entered the work item from.
const (
	ProvenanceContractBaseline  = "CONTRACT_BASELINE"
	ProvenanceCustomerInstalled = "CUSTOMER_INSTALLED"
	ProvenanceReturned          = "RETURNED"
)

// Ownership of the physical unit.
const (
	OwnershipCarrier  = "CARRIER_OWNED"
	OwnershipCustomer = "CUSTOMER_OWNED"
)

type Equipment struct {
	EquipmentID      string `json:"equipment_id"`
	ItemCategoryCode string `json:"item_category_code"`
	ModelCode        string `json:"model_code"`
	ModelName        string `json:"model_name"`
	SerialNumber     string `json:"serial_number"`
	MacAddress       string `json:"mac_address"`
	InstallLocation  string `json:"install_location"`
	Provenance       string `json:"provenance"`
	Ownership        string `json:"ownership"`
	ChangeReasonCode string `json:"change_reason_code"`
	ArrivalFlag      string `json:"arrival_flag"`

	// Carrier bookkeeping carried opaquely into the commit payload.
	ServiceComponentID      string `json:"service_component_id"`
	BasicProductComponentID string `json:"basic_product_component_id"`
	ProductCode             string `json:"product_code"`
	ServiceCode             string `json:"service_code"`
	MasterBranchID          string `json:"master_branch_id"`
	BranchID                string `json:"branch_id"`
	LeaseCode               string `json:"lease_code"`
	SaleAmount              string `json:"sale_amount"`
	VoipCustomerOwned       string `json:"voip_customer_owned"`
}

// IsCustomerOwned reports whether the unit is customer property. Such units
// never take loss flags and never enter a return request.
func (e Equipment) IsCustomerOwned() bool {
	return e.Ownership == OwnershipCustomer ||
		e.LeaseCode == constants.LeaseCodeCustomerOwned ||
		e.VoipCustomerOwned == constants.VoipCustomerOwnedYes ||
		e.ModelCode == constants.ClassCodeCustomerModem
}

// AwaitingInspection reports whether the unit sits in the arrival-inspection
// queue at the technician's branch.
func (e Equipment) AwaitingInspection() bool {
	return e.ArrivalFlag == constants.ArrivalInspectionPending
}

type InstalledBinding struct {
	ContractBaselineID string    `json:"contract_baseline_id"`
	Baseline           Equipment `json:"baseline"`
	ActualUnit         Equipment `json:"actual_unit"`
	MacAddress         string    `json:"mac_address"`
	InstallLocation    string    `json:"install_location"`
}

// RemovalFlags are the loss/damage markers on one removed unit. Loss flags
// and reusable are mutually exclusive; mutate only through Set/SetReusable.
type RemovalFlags struct {
	Lost        bool `json:"lost"`
	AdapterLost bool `json:"adapter_lost"`
	RemoteLost  bool `json:"remote_lost"`
	CableLost   bool `json:"cable_lost"`
	CradleLost  bool `json:"cradle_lost"`
	Reusable    bool `json:"reusable"`
}

// Set assigns one loss flag. Any true loss flag revokes reusable.
func (f *RemovalFlags) Set(flag constants.RemovalFlag, value bool) {
	switch flag {
	case constants.FlagEquipmentLoss:
		f.Lost = value
	case constants.FlagPartLoss:
		f.AdapterLost = value
	case constants.FlagEquipmentBrk:
		f.RemoteLost = value
	case constants.FlagCableLoss:
		f.CableLost = value
	case constants.FlagCradleLoss:
		f.CradleLost = value
	}
	if value {
		f.Reusable = false
	}
}

// SetReusable marks the unit fit for reinstallation, clearing every loss flag.
func (f *RemovalFlags) SetReusable(value bool) {
	f.Reusable = value
	if value {
		f.Lost = false
		f.AdapterLost = false
		f.RemoteLost = false
		f.CableLost = false
		f.CradleLost = false
	}
}

func (f RemovalFlags) Get(flag constants.RemovalFlag) bool {
	switch flag {
	case constants.FlagEquipmentLoss:
		return f.Lost
	case constants.FlagPartLoss:
		return f.AdapterLost
	case constants.FlagEquipmentBrk:
		return f.RemoteLost
	case constants.FlagCableLoss:
		return f.CableLost
	case constants.FlagCradleLoss:
		return f.CradleLost
	}
	return false
}

func (f RemovalFlags) AnyLoss() bool {
	return f.Lost || f.AdapterLost || f.RemoteLost || f.CableLost || f.CradleLost
}

type RemovalRecord struct {
	Unit  Equipment    `json:"unit"`
	Flags RemovalFlags `json:"flags"`
}
