package dto

import "work-equipment-service/internal/entities"

type InstallEquipmentDTO struct {
	ContractBaselineID string `json:"contract_baseline_id" validate:"required"`
	EquipmentID        string `json:"equipment_id" validate:"required"`
	MacAddress         string `json:"mac_address,omitempty" validate:"omitempty"`
	InstallLocation    string `json:"install_location,omitempty" validate:"omitempty"`
}

type MarkForRemovalDTO struct {
	EquipmentID string `json:"equipment_id" validate:"required"`
}

type ToggleLossFlagDTO struct {
	EquipmentID string `json:"equipment_id" validate:"required"`
	Flag        string `json:"flag" validate:"required,oneof=EQT_LOSS_YN PART_LOSS_BRK_YN EQT_BRK_YN EQT_CABL_LOSS_YN EQT_CRDL_LOSS_YN"`
	Value       bool   `json:"value"`
}

type ReuseEquipmentDTO struct {
	EquipmentID        string `json:"equipment_id" validate:"required"`
	ContractBaselineID string `json:"contract_baseline_id" validate:"required"`
}

type SetReuseAllDTO struct {
	Value bool `json:"value"`
}

type SetSignalStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

type WorkStateDTO struct {
	WorkItemID       string                        `json:"work_item_id"`
	Installed        []entities.InstalledBinding   `json:"installed"`
	MarkedForRemoval []RemovalRecordDTO            `json:"marked_for_removal"`
	Inventory        []ClassifiedEquipmentDTO      `json:"inventory"`
	ReturnRequests   []entities.ReturnRequestGroup `json:"return_requests"`
	ReuseAll         bool                          `json:"reuse_all"`
	LastSignalStatus string                        `json:"last_signal_status"`
}

type RemovalRecordDTO struct {
	Unit  entities.Equipment    `json:"unit"`
	Flags entities.RemovalFlags `json:"flags"`
}

type ClassifiedEquipmentDTO struct {
	Equipment entities.Equipment `json:"equipment"`
	Category  string             `json:"category"`
}

type CommitResponseDTO struct {
	Success  bool   `json:"success"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	RowCount int    `json:"row_count"`
}
