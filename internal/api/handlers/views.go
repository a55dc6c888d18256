package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/pkg/listquery"
)

// BookingResponse бронирование в ответах API
type BookingResponse struct {
	ID                 string   `json:"id"`
	CustomerID         string   `json:"customerId"`
	ServiceCode        string   `json:"serviceCode"`
	BranchID           string   `json:"branchId,omitempty"`
	Date               string   `json:"date"`
	Time               *string  `json:"time,omitempty"`
	DurationMinutes    int      `json:"durationMinutes"`
	Address            string   `json:"address,omitempty"`
	Amount             string   `json:"amount"`
	Status             string   `json:"status"`
	PaymentStatus      string   `json:"paymentStatus"`
	AssignedStaffIDs   []string `json:"assignedStaffIds"`
	Notes              *string  `json:"notes,omitempty"`
	CancellationReason *string  `json:"cancellationReason,omitempty"`
	Version            int64    `json:"version"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}

// NewBookingResponse конвертирует бронирование в ответ API
func NewBookingResponse(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		ServiceCode:        b.ServiceCode,
		BranchID:           b.BranchID,
		Date:               b.ScheduledDate.Format(domain.DateFormat),
		DurationMinutes:    b.DurationMinutes,
		Address:            b.Address,
		Amount:             b.Amount.StringFixed(2),
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		AssignedStaffIDs:   append([]string{}, b.AssignedStaffIDs...),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		Version:            b.Version,
		CreatedAt:          b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          b.ModifiedAt.UTC().Format(time.RFC3339),
	}
	if b.ScheduledTime != nil {
		t := b.ScheduledTime.String()
		resp.Time = &t
	}
	return resp
}

// AppointmentResponse запись календаря в ответах API
type AppointmentResponse struct {
	ID              string   `json:"id"`
	CustomerID      string   `json:"customerId"`
	ServiceCode     string   `json:"serviceCode"`
	Address         string   `json:"address,omitempty"`
	BranchID        string   `json:"branchId,omitempty"`
	Date            string   `json:"date"`
	Time            *string  `json:"time,omitempty"`
	DurationMinutes int      `json:"durationMinutes"`
	Duration        string   `json:"duration"`
	StaffIDs        []string `json:"staffIds"`
	Status          string   `json:"status"`
}

// NewAppointmentResponse конвертирует запись календаря в ответ API
func NewAppointmentResponse(a domain.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:              a.ID,
		CustomerID:      a.CustomerID,
		ServiceCode:     a.ServiceCode,
		Address:         a.Address,
		BranchID:        a.BranchID,
		Date:            a.DateKey(),
		DurationMinutes: a.DurationMinutes,
		Duration:        a.DurationLabel,
		StaffIDs:        append([]string{}, a.StaffIDs...),
		Status:          string(a.Status),
	}
	if a.HasTime() {
		t := a.Time.String()
		resp.Time = &t
	}
	return resp
}

// NewAppointmentList конвертирует список записей
func NewAppointmentList(list []domain.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, NewAppointmentResponse(a))
	}
	return out
}

// CancellationResponse заявка на отмену в ответах API
type CancellationResponse struct {
	ID            string  `json:"id"`
	AppointmentID string  `json:"appointmentId"`
	CustomerID    string  `json:"customerId"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	ResolvedBy    *string `json:"resolvedBy,omitempty"`
	ResolvedAt    *string `json:"resolvedAt,omitempty"`
	Version       int64   `json:"version"`
	CreatedAt     string  `json:"createdAt"`
}

// NewCancellationResponse конвертирует заявку на отмену в ответ API
func NewCancellationResponse(c *domain.CancellationRequest) *CancellationResponse {
	resp := &CancellationResponse{
		ID:            c.ID,
		AppointmentID: c.AppointmentID,
		CustomerID:    c.CustomerID,
		Reason:        c.Reason,
		Status:        string(c.Status),
		ResolvedBy:    c.ResolvedBy,
		Version:       c.Version,
		CreatedAt:     c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if c.ResolvedAt != nil {
		at := c.ResolvedAt.UTC().Format(time.RFC3339)
		resp.ResolvedAt = &at
	}
	return resp
}

// StaffResponse сотрудник в ответах API
type StaffResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BranchID  string `json:"branchId,omitempty"`
	Status    string `json:"status"`
	Version   int64  `json:"version"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// NewStaffResponse конвертирует сотрудника в ответ API
func NewStaffResponse(s *domain.Staff) *StaffResponse {
	return &StaffResponse{
		ID:        s.ID,
		Name:      s.Name,
		BranchID:  s.BranchID,
		Status:    string(s.Status),
		Version:   s.Version,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: s.ModifiedAt.UTC().Format(time.RFC3339),
	}
}

// PageResponse страница списка
type PageResponse[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
}

// NewPageResponse конвертирует страницу движка списков
func NewPageResponse[S any, T any](p *listquery.Page[S], convert func(S) T) PageResponse[T] {
	items := make([]T, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, convert(item))
	}
	return PageResponse[T]{
		Items:      items,
		TotalCount: p.TotalCount,
		TotalPages: p.TotalPages,
		Page:       p.Page,
		PageSize:   p.PageSize,
	}
}

// ListParams общие параметры списков из query string
type ListParams struct {
	Search   string
	Status   string
	SortKey  string
	SortDir  listquery.SortDir
	Page     int
	PageSize int
}

// ParseListParams читает search, status, sort, dir, page, pageSize
// Нечисловые page и pageSize считаются незаданными, движок списков подставит значения по умолчанию
func ParseListParams(r *http.Request) ListParams {
	q := r.URL.Query()
	return ListParams{
		Search:   strings.TrimSpace(q.Get("search")),
		Status:   strings.TrimSpace(q.Get("status")),
		SortKey:  strings.TrimSpace(q.Get("sort")),
		SortDir:  listquery.ParseSortDir(q.Get("dir")),
		Page:     atoiOrZero(q.Get("page")),
		PageSize: atoiOrZero(q.Get("pageSize")),
	}
}

// OptionalString возвращает nil для пустого значения и "all"
func OptionalString(v string) *string {
	v = strings.TrimSpace(v)
	if listquery.IsAll(v) {
		return nil
	}
	return &v
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
