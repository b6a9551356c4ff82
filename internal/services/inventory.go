package services

import (
	"sort"

	"go.uber.org/zap"

	"work-equipment-service/internal/dto"
	"work-equipment-service/internal/entities"
	"work-equipment-service/pkg/constants"
)

// InventoryService produces the read-time views: deduplicated return
// requests and the classified, deterministically sorted equipment list.
type InventoryService struct {
	logger *zap.Logger
}

func NewInventoryService(logger *zap.Logger) *InventoryService {
	return &InventoryService{logger: logger}
}

// DeduplicateReturnRequests collapses the stored rows into one display group
// per equipment id. The first-seen row supplies the display fields; every
// underlying row is retained so a cancellation can delete all of them. No
// row is ever dropped: the group row counts always sum to the input length.
func (s *InventoryService) DeduplicateReturnRequests(rows []entities.PendingReturnRequest) []entities.ReturnRequestGroup {
	groups := make([]entities.ReturnRequestGroup, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		tuple := entities.ReturnRequestRow{
			RequestTimestamp: row.RequestTimestamp,
			ReturnTypeCode:   row.ReturnTypeCode,
			ArrivalFlag:      row.ArrivalFlag,
		}

		if i, seen := index[row.EquipmentID]; seen {
			groups[i].AllRows = append(groups[i].AllRows, tuple)
			continue
		}

		index[row.EquipmentID] = len(groups)
		groups = append(groups, entities.ReturnRequestGroup{
			EquipmentID:      row.EquipmentID,
			ModelName:        row.ModelName,
			SerialNumber:     row.SerialNumber,
			ItemCategoryCode: row.ItemCategoryCode,
			ReturnTypeCode:   row.ReturnTypeCode,
			ArrivalFlag:      row.ArrivalFlag,
			ProcessingStatus: row.ProcessingStatus,
			AllRows:          []entities.ReturnRequestRow{tuple},
		})
	}

	return groups
}

// Classify assigns each unit exactly one display category. Precedence: a
// pending return marker wins, then the arrival-inspection sentinel, then
// plain owned stock.
func (s *InventoryService) Classify(eq entities.Equipment, returnRequested map[string]bool) string {
	switch {
	case returnRequested[eq.EquipmentID]:
		return constants.CategoryReturnRequested
	case eq.AwaitingInspection():
		return constants.CategoryInspectionWaiting
	default:
		return constants.CategoryOwned
	}
}

// BuildInventoryView classifies and sorts the technician's units. Ordering
// is a display contract: category rank first, item category code second,
// equipment id last so the order is total and input order never leaks in.
func (s *InventoryService) BuildInventoryView(units []entities.Equipment, groups []entities.ReturnRequestGroup) []dto.ClassifiedEquipmentDTO {
	returnRequested := make(map[string]bool, len(groups))
	for _, g := range groups {
		returnRequested[g.EquipmentID] = true
	}

	view := make([]dto.ClassifiedEquipmentDTO, 0, len(units))
	for _, eq := range units {
		view = append(view, dto.ClassifiedEquipmentDTO{
			Equipment: eq,
			Category:  s.Classify(eq, returnRequested),
		})
	}

	sort.SliceStable(view, func(i, j int) bool {
		ri, rj := constants.CategoryRank[view[i].Category], constants.CategoryRank[view[j].Category]
		if ri != rj {
			return ri < rj
		}
		if view[i].Equipment.ItemCategoryCode != view[j].Equipment.ItemCategoryCode {
			return view[i].Equipment.ItemCategoryCode < view[j].Equipment.ItemCategoryCode
		}
		return view[i].Equipment.EquipmentID < view[j].Equipment.EquipmentID
	})

	return view
}
