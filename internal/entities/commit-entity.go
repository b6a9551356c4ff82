package entities

import "time"

// CommitRow is one line of the final payload. Every field is a wire string;
// flags are "1"/"0". Rows are built once by the assembler and never mutated.
type CommitRow struct {
	EquipmentID        string `json:"EQT_NO"`
	ContractBaselineID string `json:"SVC_CMPS_ID"`
	ItemCategoryCode   string `json:"ITEM_MID_CD"`
	ModelCode          string `json:"EQT_CL_CD"`
	SerialNumber       string `json:"EQT_SERNO"`
	MacAddress         string `json:"MAC_ADDRESS"`
	InstallLocation    string `json:"INSTL_LOC"`
	LeaseCode          string `json:"LENT_YN"`
	InstallmentCode    string `json:"ITLLMT_PRD"`
	UseStatusCode      string `json:"EQT_USE_STAT_CD"`
	ChangeReasonCode   string `json:"EQT_CHG_GB"`
	Direction          string `json:"WORK_GB"`

	EquipmentLoss string `json:"EQT_LOSS_YN"`
	PartLoss      string `json:"PART_LOSS_BRK_YN"`
	EquipmentBrk  string `json:"EQT_BRK_YN"`
	CableLoss     string `json:"EQT_CABL_LOSS_YN"`
	CradleLoss    string `json:"EQT_CRDL_LOSS_YN"`
	ReuseFlag     string `json:"REUSE_YN"`

	ServiceComponentID      string `json:"SVC_CMPS_ID_ORG"`
	BasicProductComponentID string `json:"PROD_CMPS_ID"`
	ProductCode             string `json:"PROD_CD"`
	ServiceCode             string `json:"SVC_CD"`
	MasterBranchID          string `json:"MST_BRANCH_ID"`
	BranchID                string `json:"BRANCH_ID"`
	SaleAmount              string `json:"SALE_AMT"`
}

// Payload row directions.
const (
	DirectionInstall = "I"
	DirectionRemove  = "O"
)

type CommitPayload struct {
	WorkItemID   string      `json:"work_item_id"`
	TechnicianID string      `json:"technician_id"`
	Rows         []CommitRow `json:"rows"`
	AssembledAt  time.Time   `json:"assembled_at"`
}

// CommitAudit is the persisted record of one commit attempt.
type CommitAudit struct {
	ID           uint64    `json:"id"`
	WorkItemID   string    `json:"work_item_id"`
	TechnicianID string    `json:"technician_id"`
	RowCount     int       `json:"row_count"`
	Success      bool      `json:"success"`
	ResultCode   string    `json:"result_code"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

// TechnicianStockItem is one row of the warehouse handover sheet.
type TechnicianStockItem struct {
	ID               uint64    `json:"id"`
	TechnicianID     string    `json:"technician_id"`
	EquipmentID      string    `json:"equipment_id"`
	ItemCategoryCode string    `json:"item_category_code"`
	ModelCode        string    `json:"model_code"`
	ModelName        string    `json:"model_name"`
	SerialNumber     string    `json:"serial_number"`
	ReceivedAt       time.Time `json:"received_at"`
}
