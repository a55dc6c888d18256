package staff

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

var (
	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("staff.repository: staff not found")

	// ErrConflict возвращается, когда версия записи в БД отличается от ожидаемой
	ErrConflict = errors.New("staff.repository: version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("staff.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("staff.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("staff.repository: failed to scan row")
)

const table = "staff"

var columns = []string{"id", "name", "branch_id", "status", "version", "created_at", "updated_at"}

// Repository репозиторий сотрудников
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает репозиторий сотрудников
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет нового сотрудника
func (r *Repository) Create(ctx context.Context, s *domain.Staff) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "name", "branch_id", "status", "version").
		Values(s.ID, s.Name, s.BranchID, s.Status, 1).
		Suffix("RETURNING version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.Version, &s.CreatedAt, &s.ModifiedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return s, nil
}

// GetByID получает сотрудника по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanStaff(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan staff: %v", ErrScanRow, err)
	}

	return s, nil
}

// Save сохраняет статус сотрудника с проверкой версии
func (r *Repository) Save(ctx context.Context, s *domain.Staff) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("name", s.Name).
		Set("branch_id", s.BranchID).
		Set("status", s.Status).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID, "version": s.Version}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Save - build update query: %v", ErrBuildQuery, err)
	}

	saved := *s
	err = executor.QueryRowContext(ctx, query, args...).Scan(&saved.Version, &saved.ModifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Save - execute update: %v", ErrExecQuery, err)
	}

	return &saved, nil
}

// List получает сотрудников по фильтру, отсортированных по имени
func (r *Repository) List(ctx context.Context, filter domain.StaffFilter) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).From(table)
	if filter.BranchID != nil {
		builder = builder.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := builder.OrderBy("name ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Staff, 0)
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan staff: %v", ErrScanRow, err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStaff(row rowScanner) (*domain.Staff, error) {
	var s domain.Staff
	if err := row.Scan(&s.ID, &s.Name, &s.BranchID, &s.Status, &s.Version, &s.CreatedAt, &s.ModifiedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
