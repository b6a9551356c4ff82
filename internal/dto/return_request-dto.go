package dto

import "github.com/aarondl/null/v8"

type CreateReturnRequestDTO struct {
	EquipmentIDs   []string `json:"equipment_ids" validate:"required,min=1,dive,required"`
	ReturnTypeCode string   `json:"return_type_code" validate:"required"`
}

// ReturnRequestRowScan mirrors the return_requests table for pgx scans;
// display columns are nullable upstream.
type ReturnRequestRowScan struct {
	ID               uint64      `db:"id"`
	TechnicianID     string      `db:"technician_id"`
	EquipmentID      string      `db:"equipment_id"`
	RequestTimestamp null.Time   `db:"request_timestamp"`
	ReturnTypeCode   null.String `db:"return_type_code"`
	ArrivalFlag      null.String `db:"arrival_flag"`
	ProcessingStatus null.String `db:"processing_status"`
	ModelName        null.String `db:"model_name"`
	SerialNumber     null.String `db:"serial_number"`
	ItemCategoryCode null.String `db:"item_category_code"`
}
