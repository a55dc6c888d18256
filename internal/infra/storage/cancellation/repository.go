package cancellation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingOps/pkg/psqlbuilder"
)

const table = "cancellation_requests"

var columns = []string{
	"id",
	"appointment_id",
	"customer_id",
	"reason",
	"status",
	"resolved_by",
	"resolved_at",
	"version",
	"created_at",
}

// Repository репозиторий заявок на отмену
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает репозиторий заявок на отмену
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую заявку
func (r *Repository) Create(ctx context.Context, req *domain.CancellationRequest) (*domain.CancellationRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "appointment_id", "customer_id", "reason", "status", "version").
		Values(req.ID, req.AppointmentID, req.CustomerID, req.Reason, req.Status, 1).
		Suffix("RETURNING version, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&req.Version, &req.CreatedAt); err != nil {
		// idx_cancellation_pending: одна заявка в ожидании на бронирование
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: Create - appointment %s", ErrPendingExists, req.AppointmentID)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return req, nil
}

// GetByID получает заявку по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.CancellationRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan request: %v", ErrScanRow, err)
	}

	return req, nil
}

// Save сохраняет решение по заявке с проверкой версии
func (r *Repository) Save(ctx context.Context, req *domain.CancellationRequest) (*domain.CancellationRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", req.Status).
		Set("resolved_by", req.ResolvedBy).
		Set("resolved_at", req.ResolvedAt).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": req.ID, "version": req.Version}).
		Suffix("RETURNING version").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Save - build update query: %v", ErrBuildQuery, err)
	}

	var version int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Save - execute update: %v", ErrExecQuery, err)
	}

	saved := *req
	saved.Version = version
	return &saved, nil
}

// List получает заявки по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.CancellationsFilter) ([]*domain.CancellationRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).From(table)
	if filter.AppointmentID != nil {
		builder = builder.Where(squirrel.Eq{"appointment_id": *filter.AppointmentID})
	}
	if filter.CustomerID != nil {
		builder = builder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := builder.OrderBy("created_at DESC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.CancellationRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan request: %v", ErrScanRow, err)
		}
		result = append(result, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*domain.CancellationRequest, error) {
	var (
		req        domain.CancellationRequest
		resolvedAt sql.NullTime
	)
	err := row.Scan(
		&req.ID,
		&req.AppointmentID,
		&req.CustomerID,
		&req.Reason,
		&req.Status,
		&req.ResolvedBy,
		&resolvedAt,
		&req.Version,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		req.ResolvedAt = &t
	}
	return &req, nil
}
