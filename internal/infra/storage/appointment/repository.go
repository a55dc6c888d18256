package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingOps/pkg/psqlbuilder"
)

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)

// Repository читает записи календаря из таблицы бронирований
// Черновики и просроченные черновики в календарь не попадают
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает репозиторий записей календаря
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListInRange возвращает записи с датой в [from, to] включительно
func (r *Repository) ListInRange(ctx context.Context, from, to time.Time) ([]domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"customer_id",
		"service_code",
		"branch_id",
		"address",
		"scheduled_date",
		"scheduled_time",
		"duration_minutes",
		"assigned_staff_ids",
		"status",
	).
		From("bookings").
		Where(squirrel.GtOrEq{"scheduled_date": from}).
		Where(squirrel.LtOrEq{"scheduled_date": to}).
		Where(squirrel.NotEq{"status": []string{string(domain.StatusDraft), string(domain.StatusExpired)}}).
		OrderBy("scheduled_date ASC", "scheduled_time ASC NULLS FIRST", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListInRange - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.Appointment, 0)
	for rows.Next() {
		var (
			b     domain.Booking
			staff pq.StringArray
		)
		if err := rows.Scan(
			&b.ID,
			&b.CustomerID,
			&b.ServiceCode,
			&b.BranchID,
			&b.Address,
			&b.ScheduledDate,
			&b.ScheduledTime,
			&b.DurationMinutes,
			&staff,
			&b.Status,
		); err != nil {
			return nil, fmt.Errorf("%w: ListInRange - scan appointment: %v", ErrScanRow, err)
		}
		b.AssignedStaffIDs = []string(staff)
		result = append(result, domain.AppointmentFromBooking(&b))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListInRange - rows iteration: %v", ErrScanRow, err)
	}

	return result, nil
}
