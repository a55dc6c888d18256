package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingOps/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"customer_id",
	"service_code",
	"branch_id",
	"scheduled_date",
	"scheduled_time",
	"duration_minutes",
	"address",
	"amount",
	"status",
	"payment_status",
	"payment_token",
	"assigned_staff_ids",
	"notes",
	"cancellation_reason",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое бронирование
// ID генерирует вызывающий код (UUID), версия нового бронирования всегда 1
// Если в контексте передана активная транзакция, запрос выполняется в ней
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"customer_id",
			"service_code",
			"branch_id",
			"scheduled_date",
			"scheduled_time",
			"duration_minutes",
			"address",
			"amount",
			"status",
			"payment_status",
			"payment_token",
			"assigned_staff_ids",
			"notes",
			"version",
		).
		Values(
			booking.ID,
			booking.CustomerID,
			booking.ServiceCode,
			booking.BranchID,
			booking.ScheduledDate,
			booking.ScheduledTime,
			booking.DurationMinutes,
			booking.Address,
			booking.Amount,
			booking.Status,
			booking.PaymentStatus,
			booking.PaymentToken,
			pq.Array(staffIDs(booking.AssignedStaffIDs)),
			booking.Notes,
			1,
		).
		Suffix("RETURNING version, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.Version,
		&booking.CreatedAt,
		&booking.ModifiedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// Save сохраняет изменения бронирования с оптимистичной блокировкой
// Обновление проходит, только если версия в БД совпадает с booking.Version
// После успешного сохранения версия увеличивается на 1
func (r *Repository) Save(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", booking.Status).
		Set("payment_status", booking.PaymentStatus).
		Set("payment_token", booking.PaymentToken).
		Set("assigned_staff_ids", pq.Array(staffIDs(booking.AssignedStaffIDs))).
		Set("notes", booking.Notes).
		Set("cancellation_reason", booking.CancellationReason).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID, "version": booking.Version}).
		Suffix("RETURNING version, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Save - build update query: %v", ErrBuildQuery, err)
	}

	var (
		version    int64
		modifiedAt time.Time
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&version, &modifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Различаем отсутствие бронирования и устаревшую версию
		if _, getErr := r.GetByID(ctx, booking.ID); errors.Is(getErr, ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Save - execute update: %v", ErrExecQuery, err)
	}

	saved := booking.Clone()
	saved.Version = version
	saved.ModifiedAt = modifiedAt
	return saved, nil
}

// Query получает бронирования по фильтру
// Сортировка: дата, время (без времени - первыми), ID
func (r *Repository) Query(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).From(table)

	if filter.CustomerID != nil {
		builder = builder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.BranchID != nil {
		builder = builder.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		builder = builder.Where(squirrel.Eq{"status": statuses})
	}
	if filter.PaymentStatus != nil {
		builder = builder.Where(squirrel.Eq{"payment_status": *filter.PaymentStatus})
	}
	if filter.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"scheduled_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		builder = builder.Where(squirrel.LtOrEq{"scheduled_date": *filter.EndDate})
	}

	query, args, err := builder.
		OrderBy("scheduled_date ASC", "scheduled_time ASC NULLS FIRST", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Query - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryList(ctx, executor, "Query", query, args)
}

// ListStaleDrafts возвращает черновики, созданные раньше before, в порядке (created_at, id) после курсора after
// Блокирует выбранные строки (SKIP LOCKED), чтобы параллельные экземпляры не обрабатывали одно и то же
func (r *Repository) ListStaleDrafts(ctx context.Context, before time.Time, after *domain.DraftCursor, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": domain.StatusDraft}).
		Where(squirrel.Lt{"created_at": before}).
		OrderBy("created_at ASC", "id ASC")

	if after != nil {
		builder = builder.Where("(created_at, id) > (?, ?)", after.CreatedAt, after.ID)
	}

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE SKIP LOCKED")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaleDrafts - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryList(ctx, executor, "ListStaleDrafts", query, args)
}

func (r *Repository) queryList(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Booking, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking  domain.Booking
		staff    pq.StringArray
		created  sql.NullTime
		modified sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.ServiceCode,
		&booking.BranchID,
		&booking.ScheduledDate,
		&booking.ScheduledTime,
		&booking.DurationMinutes,
		&booking.Address,
		&booking.Amount,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.PaymentToken,
		&staff,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.Version,
		&created,
		&modified,
	)
	if err != nil {
		return nil, err
	}

	if len(staff) > 0 {
		booking.AssignedStaffIDs = []string(staff)
	}
	booking.CreatedAt = created.Time
	booking.ModifiedAt = modified.Time

	return &booking, nil
}

// staffIDs пустой список пишем как '{}', а не NULL
func staffIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
