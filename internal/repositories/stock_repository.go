package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"work-equipment-service/internal/entities"
)

const technicianStockTable = "technician_stock"

type StockRepositoryInterface interface {
	ListByTechnician(ctx context.Context, technicianID string) ([]entities.TechnicianStockItem, error)
	BulkInsert(ctx context.Context, items []entities.TechnicianStockItem) (int, error)
}

type StockRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewStockRepository(storage *pgxpool.Pool, logger *zap.Logger) StockRepositoryInterface {
	return &StockRepository{storage: storage, logger: logger}
}

func (r *StockRepository) ListByTechnician(ctx context.Context, technicianID string) ([]entities.TechnicianStockItem, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(
		"id", "technician_id", "equipment_id", "item_category_code",
		"model_code", "model_name", "serial_number", "received_at",
	).
		From(technicianStockTable).
		Where(sq.Eq{"technician_id": technicianID}).
		OrderBy("item_category_code ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entities.TechnicianStockItem, 0)
	for rows.Next() {
		var item entities.TechnicianStockItem
		if err := rows.Scan(
			&item.ID, &item.TechnicianID, &item.EquipmentID, &item.ItemCategoryCode,
			&item.ModelCode, &item.ModelName, &item.SerialNumber, &item.ReceivedAt,
		); err != nil {
			return nil, fmt.Errorf("stock scan: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// BulkInsert upserts handover rows keyed by (technician_id, equipment_id).
// A re-imported sheet refreshes the existing rows instead of duplicating.
func (r *StockRepository) BulkInsert(ctx context.Context, items []entities.TechnicianStockItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Insert(technicianStockTable).Columns(
		"technician_id", "equipment_id", "item_category_code",
		"model_code", "model_name", "serial_number", "received_at",
	)
	for _, item := range items {
		builder = builder.Values(
			item.TechnicianID, item.EquipmentID, item.ItemCategoryCode,
			item.ModelCode, item.ModelName, item.SerialNumber, item.ReceivedAt,
		)
	}
	builder = builder.Suffix(`ON CONFLICT (technician_id, equipment_id) DO UPDATE SET
		item_category_code = EXCLUDED.item_category_code,
		model_code = EXCLUDED.model_code,
		model_name = EXCLUDED.model_name,
		serial_number = EXCLUDED.serial_number,
		received_at = EXCLUDED.received_at`)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("stock insert: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
