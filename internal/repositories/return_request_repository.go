package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"work-equipment-service/internal/dto"
	"work-equipment-service/internal/entities"
)

const returnRequestTable = "return_requests"

type ReturnRequestRepositoryInterface interface {
	ListByTechnician(ctx context.Context, technicianID string) ([]entities.PendingReturnRequest, error)
	Add(ctx context.Context, rows []entities.PendingReturnRequest) error
	DeleteAllForEquipment(ctx context.Context, technicianID string, equipmentIDs []string) (int64, error)
}

type ReturnRequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReturnRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) ReturnRequestRepositoryInterface {
	return &ReturnRequestRepository{storage: storage, logger: logger}
}

// Display columns come from the upstream warehouse feed and may be null.
func scanReturnRequest(row pgx.Row) (*entities.PendingReturnRequest, error) {
	var rr entities.PendingReturnRequest
	var scan dto.ReturnRequestRowScan
	err := row.Scan(
		&rr.ID, &rr.TechnicianID, &rr.EquipmentID, &scan.RequestTimestamp,
		&scan.ReturnTypeCode, &scan.ArrivalFlag, &scan.ProcessingStatus,
		&scan.ModelName, &scan.SerialNumber, &scan.ItemCategoryCode, &rr.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("return request scan: %w", err)
	}

	rr.RequestTimestamp = scan.RequestTimestamp.Time
	rr.ReturnTypeCode = scan.ReturnTypeCode.String
	rr.ArrivalFlag = scan.ArrivalFlag.String
	rr.ProcessingStatus = scan.ProcessingStatus.String
	rr.ModelName = scan.ModelName.String
	rr.SerialNumber = scan.SerialNumber.String
	rr.ItemCategoryCode = scan.ItemCategoryCode.String
	return &rr, nil
}

// ListByTechnician returns rows in insertion order so the deduplicator's
// first-seen rule is deterministic.
func (r *ReturnRequestRepository) ListByTechnician(ctx context.Context, technicianID string) ([]entities.PendingReturnRequest, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(
		"id", "technician_id", "equipment_id", "request_timestamp",
		"return_type_code", "arrival_flag", "processing_status",
		"model_name", "serial_number", "item_category_code", "created_at",
	).
		From(returnRequestTable).
		Where(sq.Eq{"technician_id": technicianID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]entities.PendingReturnRequest, 0)
	for rows.Next() {
		rr, err := scanReturnRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *rr)
	}
	return requests, rows.Err()
}

func (r *ReturnRequestRepository) Add(ctx context.Context, rows []entities.PendingReturnRequest) error {
	if len(rows) == 0 {
		return nil
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Insert(returnRequestTable).Columns(
		"technician_id", "equipment_id", "request_timestamp",
		"return_type_code", "arrival_flag", "processing_status",
		"model_name", "serial_number", "item_category_code",
	)
	for _, rr := range rows {
		builder = builder.Values(
			rr.TechnicianID, rr.EquipmentID, rr.RequestTimestamp,
			rr.ReturnTypeCode, rr.ArrivalFlag, rr.ProcessingStatus,
			rr.ModelName, rr.SerialNumber, rr.ItemCategoryCode,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.storage.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("return request insert: %w", err)
	}
	return nil
}

// DeleteAllForEquipment removes every stored row for the given units, never a
// subset. It returns the number of rows removed.
func (r *ReturnRequestRepository) DeleteAllForEquipment(ctx context.Context, technicianID string, equipmentIDs []string) (int64, error) {
	if len(equipmentIDs) == 0 {
		return 0, nil
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Delete(returnRequestTable).
		Where(sq.Eq{"technician_id": technicianID, "equipment_id": equipmentIDs}).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("return request delete: %w", err)
	}

	r.logger.Debug("return requests cancelled",
		zap.String("technician_id", technicianID),
		zap.Strings("equipment_ids", equipmentIDs),
		zap.Int64("rows", tag.RowsAffected()),
	)
	return tag.RowsAffected(), nil
}
