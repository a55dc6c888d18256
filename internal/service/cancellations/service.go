package cancellations

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/booking"
	cancellationRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/cancellation"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings/models"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
	"github.com/m04kA/SMC-BookingOps/pkg/listquery"
	"github.com/m04kA/SMC-BookingOps/pkg/ptr"
)

// Service заявки клиентов на отмену записей
type Service struct {
	requestRepo    CancellationRepository
	bookingRepo    BookingRepository
	bookingService BookingService
	txManager      TransactionManager
	notifier       Notifier
	metrics        Metrics
	timeProvider   TimeProvider
	validate       *validator.Validate
	logger         Logger
}

// NewService создает новый экземпляр сервиса заявок на отмену
func NewService(
	requestRepo CancellationRepository,
	bookingRepo BookingRepository,
	bookingService BookingService,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		requestRepo:    requestRepo,
		bookingRepo:    bookingRepo,
		bookingService: bookingService,
		txManager:      txManager,
		notifier:       notifier,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		validate:       validator.New(),
		logger:         logger,
	}
}

// File создает заявку на отмену
// Запись должна принадлежать клиенту и быть в статусе pending или confirmed, открытая заявка может быть только одна
func (s *Service) File(ctx context.Context, req *FileRequest) (*domain.CancellationRequest, error) {
	s.logger.Info("File: appointment=%s by %s=%s", req.AppointmentID, req.Actor.Role, req.Actor.ID)

	if req.Actor.Role != domain.RoleCustomer {
		s.logger.Warn("File: access denied for %s=%s", req.Actor.Role, req.Actor.ID)
		return nil, ErrAccessDenied
	}
	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn("File: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("File: appointment id=%s not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("File: booking repository error for id=%s: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: File - booking repository error: %v", ErrInternal, err)
	}

	if !booking.IsOwnedBy(req.Actor.ID) {
		s.logger.Warn("File: customer=%s does not own appointment id=%s", req.Actor.ID, req.AppointmentID)
		return nil, ErrAccessDenied
	}
	if !domain.CustomerCancellableStatuses.Contains(booking.Status) {
		s.logger.Warn("File: appointment id=%s is %s", req.AppointmentID, booking.Status)
		return nil, fmt.Errorf("%w: appointment is %s", ErrNotCancellable, booking.Status)
	}

	pending := domain.CancellationPending
	open, err := s.requestRepo.List(ctx, domain.CancellationsFilter{AppointmentID: &req.AppointmentID, Status: &pending})
	if err != nil {
		s.logger.Error("File: repository error: %v", err)
		return nil, fmt.Errorf("%w: File - repository error: %v", ErrInternal, err)
	}
	if len(open) > 0 {
		s.logger.Warn("File: appointment id=%s already has pending request id=%s", req.AppointmentID, open[0].ID)
		return nil, ErrDuplicateRequest
	}

	if err := transitions.CheckInitial(transitions.KindCancellation, string(pending)); err != nil {
		return nil, fmt.Errorf("%w: File - initial status: %v", ErrInternal, err)
	}

	created, err := s.requestRepo.Create(ctx, &domain.CancellationRequest{
		ID:            uuid.NewString(),
		AppointmentID: booking.ID,
		CustomerID:    booking.CustomerID,
		Reason:        req.Reason,
		Status:        pending,
		CreatedAt:     s.timeProvider.Now(),
	})
	if err != nil {
		// Параллельная заявка успела раньше, уникальность держит хранилище
		if errors.Is(err, cancellationRepo.ErrPendingExists) {
			s.logger.Warn("File: appointment id=%s already has pending request", req.AppointmentID)
			return nil, ErrDuplicateRequest
		}
		s.logger.Error("File: failed to create request for appointment id=%s: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: File - create: %v", ErrInternal, err)
	}

	s.logger.Info("File: request id=%s created for appointment id=%s", created.ID, created.AppointmentID)
	return created, nil
}

// Resolve одобряет или отклоняет заявку
// Одобрение отменяет бронирование в той же транзакции, отказ только уведомляет клиента
func (s *Service) Resolve(ctx context.Context, req *ResolveRequest) (*domain.CancellationRequest, error) {
	s.logger.Info("Resolve: request id=%s decision=%s by %s=%s", req.RequestID, req.Decision, req.Actor.Role, req.Actor.ID)

	if req.Actor.Role != domain.RoleStaff {
		s.logger.Warn("Resolve: access denied for %s=%s", req.Actor.Role, req.Actor.ID)
		return nil, ErrAccessDenied
	}
	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn("Resolve: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.CancellationRequest
	var from domain.CancellationStatus
	var applied *models.AppliedTransition

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		request, err := s.requestRepo.GetByID(txCtx, req.RequestID)
		if err != nil {
			if errors.Is(err, cancellationRepo.ErrRequestNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
		}

		if req.ExpectedVersion != 0 && req.ExpectedVersion != request.Version {
			return fmt.Errorf("%w: expected version %d, actual %d", ErrConflict, req.ExpectedVersion, request.Version)
		}

		from = request.Status
		if err := transitions.CheckCancellation(from, req.Decision); err != nil {
			s.metrics.RecordRejection(string(transitions.KindCancellation), transitions.ReasonOf(err))
			return err
		}

		if req.Decision == domain.CancellationApproved {
			reason := request.Reason
			applied, err = s.bookingService.ApplyTransition(txCtx, &models.CommitRequest{
				BookingID: request.AppointmentID,
				Actor:     req.Actor,
				To:        domain.StatusCancelled,
				Reason:    &reason,
			})
			if err != nil {
				return err
			}
		}

		request.Status = req.Decision
		request.ResolvedBy = ptr.Ptr(req.Actor.ID)
		request.ResolvedAt = ptr.Ptr(s.timeProvider.Now())

		saved, err := s.requestRepo.Save(txCtx, request)
		if err != nil {
			if errors.Is(err, cancellationRepo.ErrConflict) {
				return ErrConflict
			}
			return fmt.Errorf("%w: Resolve - save: %v", ErrInternal, err)
		}
		result = saved
		return nil
	})
	if err != nil {
		if transitions.IsRejection(err) {
			s.logger.Warn("Resolve: rejected for request id=%s: %v", req.RequestID, err)
		} else {
			s.logger.Error("Resolve: failed for request id=%s: %v", req.RequestID, err)
		}
		return nil, err
	}

	// Уведомление об отмене уходит только после фиксации транзакции
	if applied != nil {
		s.bookingService.FinishTransition(ctx, applied)
	}
	s.metrics.RecordTransition(string(transitions.KindCancellation), string(from), string(result.Status))

	if result.Status == domain.CancellationDenied {
		data := map[string]string{"requestId": result.ID, "appointmentId": result.AppointmentID}
		if err := s.notifier.Notify(ctx, result.CustomerID, domain.NotifyCancellationDenied, data); err != nil {
			s.metrics.RecordNotificationFailure(domain.NotifyCancellationDenied)
			s.logger.Warn("Resolve: notification for request id=%s failed: %v", result.ID, err)
		}
	}

	s.logger.Info("Resolve: request id=%s is %s", result.ID, result.Status)
	return result, nil
}

// List возвращает страницу заявок, клиент видит только свои
func (s *Service) List(ctx context.Context, req *ListRequest) (*listquery.Page[*domain.CancellationRequest], error) {
	s.logger.Info("List: %s=%s status=%q page=%d", req.Actor.Role, req.Actor.ID, req.Status, req.Page)

	if !req.Actor.Role.IsValid() {
		return nil, ErrAccessDenied
	}
	if !listquery.IsAll(req.Status) && !transitions.IsKnown(transitions.KindCancellation, req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	filter := domain.CancellationsFilter{AppointmentID: req.AppointmentID}
	if req.Actor.Role == domain.RoleCustomer {
		filter.CustomerID = ptr.Ptr(req.Actor.ID)
	}

	list, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	page := listquery.Query(list, requestSchema, listquery.Params{
		Search:       req.Search,
		SearchFields: requestSearchFields,
		Filters:      map[string]string{"status": req.Status},
		SortKey:      req.SortKey,
		SortDir:      req.SortDir,
		Page:         req.Page,
		PageSize:     req.PageSize,
	})
	return &page, nil
}
