// Package memory хранилище в памяти процесса
// Используется при database.driver = "memory" и как заглушка репозиториев в тестах
// Возвращает те же ошибки, что и репозитории PostgreSQL
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/booking"
	cancellationRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/cancellation"
	staffRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/staff"
)

// Store общее состояние всех репозиториев
type Store struct {
	mu            sync.RWMutex
	bookings      map[string]*domain.Booking
	cancellations map[string]*domain.CancellationRequest
	staff         map[string]*domain.Staff
	now           func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		bookings:      make(map[string]*domain.Booking),
		cancellations: make(map[string]*domain.CancellationRequest),
		staff:         make(map[string]*domain.Staff),
		now:           time.Now,
	}
}

// WithClock подменяет источник времени (для тестов)
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Bookings репозиторий бронирований
func (s *Store) Bookings() *BookingRepository { return &BookingRepository{s: s} }

// Appointments репозиторий записей календаря
func (s *Store) Appointments() *AppointmentRepository { return &AppointmentRepository{s: s} }

// Cancellations репозиторий заявок на отмену
func (s *Store) Cancellations() *CancellationRepository { return &CancellationRepository{s: s} }

// Staff репозиторий сотрудников
func (s *Store) Staff() *StaffRepository { return &StaffRepository{s: s} }

// BookingRepository бронирования в памяти
type BookingRepository struct {
	s *Store
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.bookings[b.ID]; exists {
		return nil, fmt.Errorf("%w: Create - duplicate id %s", bookingRepo.ErrExecQuery, b.ID)
	}

	now := r.s.now()
	b.Version = 1
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.ModifiedAt = now
	r.s.bookings[b.ID] = b.Clone()
	remember(ctx, func() { delete(r.s.bookings, b.ID) })
	return b, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b.Clone(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.bookings[b.ID]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if current.Version != b.Version {
		return nil, bookingRepo.ErrConflict
	}

	saved := b.Clone()
	saved.Version = current.Version + 1
	saved.ModifiedAt = r.s.now()
	r.s.bookings[b.ID] = saved
	remember(ctx, func() { r.s.bookings[b.ID] = current })
	return saved.Clone(), nil
}

func (r *BookingRepository) Query(ctx context.Context, f domain.BookingsFilter) ([]*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if !matchBooking(b, f) {
			continue
		}
		result = append(result, b.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return bookingLess(result[i], result[j])
	})
	return result, nil
}

func (r *BookingRepository) ListStaleDrafts(ctx context.Context, before time.Time, after *domain.DraftCursor, limit int) ([]*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if b.Status == domain.StatusDraft && b.CreatedAt.Before(before) && after.After(b) {
			result = append(result, b.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// AppointmentRepository записи календаря, построенные из бронирований
type AppointmentRepository struct {
	s *Store
}

func (r *AppointmentRepository) ListInRange(ctx context.Context, from, to time.Time) ([]domain.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if b.Status == domain.StatusDraft || b.Status == domain.StatusExpired {
			continue
		}
		if b.ScheduledDate.Before(from) || b.ScheduledDate.After(to) {
			continue
		}
		matched = append(matched, b)
	}
	sort.Slice(matched, func(i, j int) bool { return bookingLess(matched[i], matched[j]) })

	result := make([]domain.Appointment, 0, len(matched))
	for _, b := range matched {
		result = append(result, domain.AppointmentFromBooking(b))
	}
	return result, nil
}

// CancellationRepository заявки на отмену в памяти
type CancellationRepository struct {
	s *Store
}

func (r *CancellationRepository) Create(ctx context.Context, c *domain.CancellationRequest) (*domain.CancellationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.cancellations[c.ID]; exists {
		return nil, fmt.Errorf("%w: Create - duplicate id %s", cancellationRepo.ErrExecQuery, c.ID)
	}
	// Не больше одной заявки в ожидании на бронирование
	if c.Status == domain.CancellationPending {
		for _, existing := range r.s.cancellations {
			if existing.AppointmentID == c.AppointmentID && existing.Status == domain.CancellationPending {
				return nil, fmt.Errorf("%w: Create - appointment %s", cancellationRepo.ErrPendingExists, c.AppointmentID)
			}
		}
	}
	c.Version = 1
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.s.now()
	}
	stored := *c
	r.s.cancellations[c.ID] = &stored
	remember(ctx, func() { delete(r.s.cancellations, c.ID) })
	return c, nil
}

func (r *CancellationRepository) GetByID(ctx context.Context, id string) (*domain.CancellationRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.cancellations[id]
	if !ok {
		return nil, cancellationRepo.ErrRequestNotFound
	}
	out := *c
	return &out, nil
}

func (r *CancellationRepository) Save(ctx context.Context, c *domain.CancellationRequest) (*domain.CancellationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.cancellations[c.ID]
	if !ok || current.Version != c.Version {
		return nil, cancellationRepo.ErrConflict
	}
	saved := *c
	saved.Version = current.Version + 1
	r.s.cancellations[c.ID] = &saved
	remember(ctx, func() { r.s.cancellations[c.ID] = current })
	out := saved
	return &out, nil
}

func (r *CancellationRepository) List(ctx context.Context, f domain.CancellationsFilter) ([]*domain.CancellationRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.CancellationRequest, 0)
	for _, c := range r.s.cancellations {
		if f.AppointmentID != nil && c.AppointmentID != *f.AppointmentID {
			continue
		}
		if f.CustomerID != nil && c.CustomerID != *f.CustomerID {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		out := *c
		result = append(result, &out)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// StaffRepository сотрудники в памяти
type StaffRepository struct {
	s *Store
}

func (r *StaffRepository) Create(ctx context.Context, st *domain.Staff) (*domain.Staff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.staff[st.ID]; exists {
		return nil, fmt.Errorf("%w: Create - duplicate id %s", staffRepo.ErrExecQuery, st.ID)
	}
	now := r.s.now()
	st.Version = 1
	st.CreatedAt = now
	st.ModifiedAt = now
	stored := *st
	r.s.staff[st.ID] = &stored
	remember(ctx, func() { delete(r.s.staff, st.ID) })
	return st, nil
}

func (r *StaffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.staff[id]
	if !ok {
		return nil, staffRepo.ErrStaffNotFound
	}
	out := *st
	return &out, nil
}

func (r *StaffRepository) Save(ctx context.Context, st *domain.Staff) (*domain.Staff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.staff[st.ID]
	if !ok || current.Version != st.Version {
		return nil, staffRepo.ErrConflict
	}
	saved := *st
	saved.Version = current.Version + 1
	saved.ModifiedAt = r.s.now()
	r.s.staff[st.ID] = &saved
	remember(ctx, func() { r.s.staff[st.ID] = current })
	out := saved
	return &out, nil
}

func (r *StaffRepository) List(ctx context.Context, f domain.StaffFilter) ([]*domain.Staff, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Staff, 0)
	for _, st := range r.s.staff {
		if f.BranchID != nil && st.BranchID != *f.BranchID {
			continue
		}
		if f.Status != nil && st.Status != *f.Status {
			continue
		}
		out := *st
		result = append(result, &out)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func matchBooking(b *domain.Booking, f domain.BookingsFilter) bool {
	if f.CustomerID != nil && b.CustomerID != *f.CustomerID {
		return false
	}
	if f.BranchID != nil && b.BranchID != *f.BranchID {
		return false
	}
	if len(f.Statuses) > 0 && !domain.BookingStatusSet(f.Statuses).Contains(b.Status) {
		return false
	}
	if f.PaymentStatus != nil && b.PaymentStatus != *f.PaymentStatus {
		return false
	}
	if f.StartDate != nil && b.ScheduledDate.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && b.ScheduledDate.After(*f.EndDate) {
		return false
	}
	return true
}

// bookingLess порядок как в SQL: дата, время (NULL первым), ID
func bookingLess(a, b *domain.Booking) bool {
	if !a.ScheduledDate.Equal(b.ScheduledDate) {
		return a.ScheduledDate.Before(b.ScheduledDate)
	}
	at, bt := "", ""
	if a.ScheduledTime != nil {
		at = a.ScheduledTime.String()
	}
	if b.ScheduledTime != nil {
		bt = b.ScheduledTime.String()
	}
	if at != bt {
		return at < bt
	}
	return a.ID < b.ID
}
