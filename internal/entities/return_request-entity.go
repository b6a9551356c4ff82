package entities

import "time"

// PendingReturnRequest is one stored row. A single physical unit accumulates
// one row per (equipmentID, requestTimestamp) pair.
type PendingReturnRequest struct {
	ID               uint64    `json:"id"`
	TechnicianID     string    `json:"technician_id"`
	EquipmentID      string    `json:"equipment_id"`
	RequestTimestamp time.Time `json:"request_timestamp"`
	ReturnTypeCode   string    `json:"return_type_code"`
	ArrivalFlag      string    `json:"arrival_flag"`
	ProcessingStatus string    `json:"processing_status"`
	ModelName        string    `json:"model_name"`
	SerialNumber     string    `json:"serial_number"`
	ItemCategoryCode string    `json:"item_category_code"`
	CreatedAt        time.Time `json:"created_at"`
}

// ReturnRequestRow is one underlying (timestamp, type, arrival) tuple kept
// inside a deduplicated group.
type ReturnRequestRow struct {
	RequestTimestamp time.Time `json:"request_timestamp"`
	ReturnTypeCode   string    `json:"return_type_code"`
	ArrivalFlag      string    `json:"arrival_flag"`
}

// ReturnRequestGroup is the display unit: the first-seen row for an equipment
// id plus every underlying row. Cancellation deletes all of AllRows.
type ReturnRequestGroup struct {
	EquipmentID      string             `json:"equipment_id"`
	ModelName        string             `json:"model_name"`
	SerialNumber     string             `json:"serial_number"`
	ItemCategoryCode string             `json:"item_category_code"`
	ReturnTypeCode   string             `json:"return_type_code"`
	ArrivalFlag      string             `json:"arrival_flag"`
	ProcessingStatus string             `json:"processing_status"`
	AllRows          []ReturnRequestRow `json:"all_rows"`
}
