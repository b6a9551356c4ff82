package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"work-equipment-service/internal/entities"
	"work-equipment-service/internal/repositories"
)

// StockImportService loads a warehouse handover sheet into technician_stock.
// Sheets come from different warehouses with shifting header rows, so the
// header is located by content rather than position.
type StockImportService struct {
	stockRepository repositories.StockRepositoryInterface
	logger          *zap.Logger
}

func NewStockImportService(stockRepository repositories.StockRepositoryInterface, logger *zap.Logger) *StockImportService {
	return &StockImportService{stockRepository: stockRepository, logger: logger}
}

type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

func (s *StockImportService) ImportHandoverSheet(ctx context.Context, technicianID, filePath string) (*ImportSummary, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open handover sheet: %w", err)
	}
	defer f.Close()

	var finalRows [][]string
	idIdx, catIdx, modelIdx, nameIdx, serialIdx := -1, -1, -1, -1, -1
	headerFoundRow := -1

	for _, sheet := range f.GetSheetList() {
		rows, _ := f.GetRows(sheet)
		for rIdx, row := range rows {
			rowStr := strings.ToLower(strings.Join(row, "|"))

			hasID := strings.Contains(rowStr, "equipment") || strings.Contains(rowStr, "eqt_no")
			hasSerial := strings.Contains(rowStr, "serial") || strings.Contains(rowStr, "serno")
			if !hasID || !hasSerial {
				continue
			}

			for cIdx, colName := range row {
				cLower := strings.ToLower(strings.TrimSpace(colName))
				switch {
				case strings.Contains(cLower, "equipment") || strings.Contains(cLower, "eqt_no"):
					idIdx = cIdx
				case strings.Contains(cLower, "category") || strings.Contains(cLower, "item"):
					catIdx = cIdx
				case strings.Contains(cLower, "model code") || strings.Contains(cLower, "cl_cd"):
					modelIdx = cIdx
				case strings.Contains(cLower, "model") || strings.Contains(cLower, "cl_nm"):
					nameIdx = cIdx
				case strings.Contains(cLower, "serial") || strings.Contains(cLower, "serno"):
					serialIdx = cIdx
				}
			}

			if idIdx != -1 && serialIdx != -1 {
				finalRows = rows
				headerFoundRow = rIdx
				s.logger.Debug("handover header located",
					zap.String("sheet", sheet),
					zap.Int("row", rIdx+1),
				)
				break
			}
		}
		if headerFoundRow != -1 {
			break
		}
	}

	if headerFoundRow == -1 {
		return nil, fmt.Errorf("no header row found; expected columns for equipment id and serial number")
	}

	now := time.Now()
	items := make([]entities.TechnicianStockItem, 0, len(finalRows)-headerFoundRow-1)
	skipped := 0

	for i := headerFoundRow + 1; i < len(finalRows); i++ {
		row := finalRows[i]

		equipmentID := safeCell(row, idIdx)
		if equipmentID == "" {
			skipped++
			continue
		}

		items = append(items, entities.TechnicianStockItem{
			TechnicianID:     technicianID,
			EquipmentID:      equipmentID,
			ItemCategoryCode: safeCell(row, catIdx),
			ModelCode:        safeCell(row, modelIdx),
			ModelName:        safeCell(row, nameIdx),
			SerialNumber:     safeCell(row, serialIdx),
			ReceivedAt:       now,
		})
	}

	imported, err := s.stockRepository.BulkInsert(ctx, items)
	if err != nil {
		return nil, err
	}

	s.logger.Info("handover sheet imported",
		zap.String("technician_id", technicianID),
		zap.Int("imported", imported),
		zap.Int("skipped", skipped),
	)
	return &ImportSummary{Imported: imported, Skipped: skipped}, nil
}

func safeCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
