package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	staffRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/staff"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
	"github.com/m04kA/SMC-BookingOps/pkg/listquery"
)

var staffSchema = listquery.Schema[*domain.Staff]{
	"id":        listquery.StringField(func(s *domain.Staff) string { return s.ID }),
	"name":      listquery.StringField(func(s *domain.Staff) string { return s.Name }),
	"branchId":  listquery.StringField(func(s *domain.Staff) string { return s.BranchID }),
	"status":    listquery.StringField(func(s *domain.Staff) string { return string(s.Status) }),
	"createdAt": listquery.TimeField(func(s *domain.Staff) time.Time { return s.CreatedAt }),
}

var staffSearchFields = []string{"id", "name", "branchId"}

// Service управление сотрудниками, доступно только сотрудникам
type Service struct {
	staffRepo StaffRepository
	metrics   Metrics
	validate  *validator.Validate
	logger    Logger
}

// NewService создает новый экземпляр сервиса сотрудников
func NewService(staffRepo StaffRepository, metrics Metrics, logger Logger) *Service {
	return &Service{
		staffRepo: staffRepo,
		metrics:   metrics,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Create добавляет сотрудника в статусе active
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*domain.Staff, error) {
	s.logger.Info("Create: staff name=%q branch=%q by %s=%s", req.Name, req.BranchID, req.Actor.Role, req.Actor.ID)

	if req.Actor.Role != domain.RoleStaff {
		return nil, ErrAccessDenied
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := transitions.CheckInitial(transitions.KindStaff, string(domain.StaffActive)); err != nil {
		return nil, fmt.Errorf("%w: Create - initial status: %v", ErrInternal, err)
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	created, err := s.staffRepo.Create(ctx, &domain.Staff{
		ID:       id,
		Name:     req.Name,
		BranchID: req.BranchID,
		Status:   domain.StaffActive,
	})
	if err != nil {
		s.logger.Error("Create: failed to create staff id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: staff id=%s created", created.ID)
	return created, nil
}

// ChangeStatus переводит сотрудника в другой статус по графу active/inactive/terminated
func (s *Service) ChangeStatus(ctx context.Context, req *ChangeStatusRequest) (*domain.Staff, error) {
	s.logger.Info("ChangeStatus: staff id=%s to=%s by %s=%s", req.StaffID, req.To, req.Actor.Role, req.Actor.ID)

	if req.Actor.Role != domain.RoleStaff {
		return nil, ErrAccessDenied
	}

	member, err := s.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("ChangeStatus: staff id=%s not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("ChangeStatus: repository error for staff id=%s: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: ChangeStatus - repository error: %v", ErrInternal, err)
	}

	if req.ExpectedVersion != 0 && req.ExpectedVersion != member.Version {
		return nil, fmt.Errorf("%w: expected version %d, actual %d", ErrConflict, req.ExpectedVersion, member.Version)
	}

	from := member.Status
	if err := transitions.CheckStaff(from, req.To); err != nil {
		s.metrics.RecordRejection(string(transitions.KindStaff), transitions.ReasonOf(err))
		s.logger.Warn("ChangeStatus: rejected for staff id=%s: %v", req.StaffID, err)
		return nil, err
	}

	member.Status = req.To
	saved, err := s.staffRepo.Save(ctx, member)
	if err != nil {
		if errors.Is(err, staffRepo.ErrConflict) {
			return nil, ErrConflict
		}
		s.logger.Error("ChangeStatus: failed to save staff id=%s: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: ChangeStatus - save: %v", ErrInternal, err)
	}

	s.metrics.RecordTransition(string(transitions.KindStaff), string(from), string(saved.Status))
	s.logger.Info("ChangeStatus: staff id=%s moved %s -> %s", saved.ID, from, saved.Status)
	return saved, nil
}

// List возвращает страницу сотрудников
func (s *Service) List(ctx context.Context, req *ListRequest) (*listquery.Page[*domain.Staff], error) {
	s.logger.Info("List: branch=%v status=%q search=%q page=%d", req.BranchID, req.Status, req.Search, req.Page)

	if req.Actor.Role != domain.RoleStaff {
		return nil, ErrAccessDenied
	}
	if !listquery.IsAll(req.Status) && !transitions.IsKnown(transitions.KindStaff, req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	list, err := s.staffRepo.List(ctx, domain.StaffFilter{BranchID: req.BranchID})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	page := listquery.Query(list, staffSchema, listquery.Params{
		Search:       req.Search,
		SearchFields: staffSearchFields,
		Filters:      map[string]string{"status": req.Status},
		SortKey:      req.SortKey,
		SortDir:      req.SortDir,
		Page:         req.Page,
		PageSize:     req.PageSize,
	})
	return &page, nil
}
