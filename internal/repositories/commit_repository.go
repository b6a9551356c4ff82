package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"work-equipment-service/internal/entities"
)

const commitAuditTable = "equipment_commits"

// CommitAuditRepositoryInterface persists one row per commit attempt,
// successful or not, for the carrier reconciliation reports.
type CommitAuditRepositoryInterface interface {
	Record(ctx context.Context, audit entities.CommitAudit) error
	ListByWorkItem(ctx context.Context, workItemID string) ([]entities.CommitAudit, error)
}

type CommitAuditRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCommitAuditRepository(storage *pgxpool.Pool, logger *zap.Logger) CommitAuditRepositoryInterface {
	return &CommitAuditRepository{storage: storage, logger: logger}
}

func (r *CommitAuditRepository) Record(ctx context.Context, audit entities.CommitAudit) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(commitAuditTable).
		Columns("work_item_id", "technician_id", "row_count", "success", "result_code", "message").
		Values(audit.WorkItemID, audit.TechnicianID, audit.RowCount, audit.Success, audit.ResultCode, audit.Message).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.storage.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("commit audit insert: %w", err)
	}
	return nil
}

func (r *CommitAuditRepository) ListByWorkItem(ctx context.Context, workItemID string) ([]entities.CommitAudit, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(
		"id", "work_item_id", "technician_id", "row_count", "success", "result_code", "message", "created_at",
	).
		From(commitAuditTable).
		Where(sq.Eq{"work_item_id": workItemID}).
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	audits := make([]entities.CommitAudit, 0)
	for rows.Next() {
		var a entities.CommitAudit
		if err := rows.Scan(
			&a.ID, &a.WorkItemID, &a.TechnicianID, &a.RowCount,
			&a.Success, &a.ResultCode, &a.Message, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("commit audit scan: %w", err)
		}
		audits = append(audits, a)
	}
	return audits, rows.Err()
}
