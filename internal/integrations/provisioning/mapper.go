package provisioning

import (
	"encoding/json"
	"fmt"
	"strconv"

	"work-equipment-service/internal/dto"
	"work-equipment-service/internal/integrations"
)

// The gateway serializes numbers and strings interchangeably depending on the
// backing system generation, so records are decoded loosely and stringified.
type snapshotResponse struct {
	Output2 []map[string]interface{} `json:"output2"`
	Output3 []map[string]interface{} `json:"output3"`
	Output4 []map[string]interface{} `json:"output4"`
	Output5 []map[string]interface{} `json:"output5"`
}

type commitResponse struct {
	Result  string `json:"RESULT"`
	Code    string `json:"CODE"`
	Message string `json:"MESSAGE"`
}

func mapSnapshotResponse(raw json.RawMessage) (*dto.RawSnapshot, error) {
	var resp snapshotResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("unexpected snapshot body: %w", err)
	}

	return &dto.RawSnapshot{
		ContractBaseline:  mapRecords(resp.Output2),
		TechnicianStock:   mapRecords(resp.Output3),
		CustomerInstalled: mapRecords(resp.Output4),
		Removable:         mapRecords(resp.Output5),
	}, nil
}

func mapRecords(rows []map[string]interface{}) []dto.RawRecord {
	records := make([]dto.RawRecord, 0, len(rows))
	for _, row := range rows {
		record := make(dto.RawRecord, len(row))
		for key, value := range row {
			record[key] = stringify(value)
		}
		records = append(records, record)
	}
	return records
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// Whole numbers keep integer form; carrier ids are never fractional.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "Y"
		}
		return "N"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func mapCommitResponse(raw json.RawMessage) (integrations.CommitResult, error) {
	var resp commitResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return integrations.CommitResult{}, fmt.Errorf("unexpected commit body: %w", err)
	}

	return integrations.CommitResult{
		Success: resp.Result == "OK" || resp.Code == "0000",
		Code:    resp.Code,
		Message: resp.Message,
	}, nil
}
