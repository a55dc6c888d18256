// Package transitions хранит графы статусов всех сущностей и проверяет переходы.
//
// Бронирование:
//
//	draft ──► pending ──► confirmed ──► in-progress ──► completed
//	  │          ├──► rejected  │
//	  │          └──► cancelled ◄┘
//	  └──► expired
//
// completed, cancelled, rejected, expired - терминальные.
package transitions

import "github.com/m04kA/SMC-BookingOps/internal/domain"

// EntityKind тип сущности, у которой есть граф статусов
type EntityKind string

const (
	KindBooking      EntityKind = "booking"
	KindAppointment  EntityKind = "appointment"
	KindCancellation EntityKind = "cancellation-request"
	KindStaff        EntityKind = "staff"
)

// Facts данные о сущности, нужные для проверки условий перехода
type Facts struct {
	PaymentConfirmed bool
	AssignedStaff    int
}

// precondition условие, без которого ребро графа недоступно
type precondition struct {
	name  string
	check func(Facts) bool
}

var (
	paymentConfirmed = &precondition{
		name:  "payment is not confirmed",
		check: func(f Facts) bool { return f.PaymentConfirmed },
	}
	staffAssigned = &precondition{
		name:  "no staff assigned",
		check: func(f Facts) bool { return f.AssignedStaff > 0 },
	}
)

type edge struct {
	from, to string
	pre      *precondition
}

// graph граф статусов одной сущности
type graph struct {
	statuses []string // порядок объявления
	known    map[string]struct{}
	terminal map[string]struct{}
	initial  map[string]struct{}
	edges    map[string]map[string]*precondition
	order    map[string][]string // исходящие ребра в порядке объявления
}

func newGraph(statuses, terminal, initial []string, edges []edge) *graph {
	g := &graph{
		statuses: statuses,
		known:    make(map[string]struct{}, len(statuses)),
		terminal: make(map[string]struct{}, len(terminal)),
		initial:  make(map[string]struct{}, len(initial)),
		edges:    make(map[string]map[string]*precondition),
		order:    make(map[string][]string),
	}
	for _, s := range statuses {
		g.known[s] = struct{}{}
	}
	for _, s := range terminal {
		g.terminal[s] = struct{}{}
	}
	for _, s := range initial {
		g.initial[s] = struct{}{}
	}
	for _, e := range edges {
		if g.edges[e.from] == nil {
			g.edges[e.from] = make(map[string]*precondition)
		}
		g.edges[e.from][e.to] = e.pre
		g.order[e.from] = append(g.order[e.from], e.to)
	}
	return g
}

func (g *graph) isKnown(s string) bool {
	_, ok := g.known[s]
	return ok
}

func (g *graph) isTerminal(s string) bool {
	_, ok := g.terminal[s]
	return ok
}

var registry = map[EntityKind]*graph{
	KindBooking: newGraph(
		[]string{
			string(domain.StatusDraft),
			string(domain.StatusPending),
			string(domain.StatusConfirmed),
			string(domain.StatusInProgress),
			string(domain.StatusCompleted),
			string(domain.StatusCancelled),
			string(domain.StatusRejected),
			string(domain.StatusExpired),
		},
		[]string{
			string(domain.StatusCompleted),
			string(domain.StatusCancelled),
			string(domain.StatusRejected),
			string(domain.StatusExpired),
		},
		[]string{
			string(domain.StatusDraft),
			string(domain.StatusPending),
		},
		[]edge{
			{from: string(domain.StatusDraft), to: string(domain.StatusPending), pre: paymentConfirmed},
			{from: string(domain.StatusDraft), to: string(domain.StatusExpired)},
			{from: string(domain.StatusPending), to: string(domain.StatusConfirmed)},
			{from: string(domain.StatusPending), to: string(domain.StatusRejected)},
			{from: string(domain.StatusPending), to: string(domain.StatusCancelled)},
			{from: string(domain.StatusConfirmed), to: string(domain.StatusInProgress), pre: staffAssigned},
			{from: string(domain.StatusConfirmed), to: string(domain.StatusCancelled)},
			{from: string(domain.StatusInProgress), to: string(domain.StatusCompleted)},
		},
	),

	KindAppointment: newGraph(
		[]string{
			string(domain.AppointmentPending),
			string(domain.AppointmentConfirmed),
			string(domain.AppointmentInProgress),
			string(domain.AppointmentCompleted),
			string(domain.AppointmentCancelled),
		},
		[]string{
			string(domain.AppointmentCompleted),
			string(domain.AppointmentCancelled),
		},
		[]string{string(domain.AppointmentPending)},
		[]edge{
			{from: string(domain.AppointmentPending), to: string(domain.AppointmentConfirmed)},
			{from: string(domain.AppointmentPending), to: string(domain.AppointmentCancelled)},
			{from: string(domain.AppointmentConfirmed), to: string(domain.AppointmentInProgress)},
			{from: string(domain.AppointmentConfirmed), to: string(domain.AppointmentCancelled)},
			{from: string(domain.AppointmentInProgress), to: string(domain.AppointmentCompleted)},
		},
	),

	KindCancellation: newGraph(
		[]string{
			string(domain.CancellationPending),
			string(domain.CancellationApproved),
			string(domain.CancellationDenied),
		},
		[]string{
			string(domain.CancellationApproved),
			string(domain.CancellationDenied),
		},
		[]string{string(domain.CancellationPending)},
		[]edge{
			{from: string(domain.CancellationPending), to: string(domain.CancellationApproved)},
			{from: string(domain.CancellationPending), to: string(domain.CancellationDenied)},
		},
	),

	KindStaff: newGraph(
		[]string{
			string(domain.StaffActive),
			string(domain.StaffInactive),
			string(domain.StaffTerminated),
		},
		[]string{string(domain.StaffTerminated)},
		[]string{string(domain.StaffActive)},
		[]edge{
			{from: string(domain.StaffActive), to: string(domain.StaffInactive)},
			{from: string(domain.StaffInactive), to: string(domain.StaffActive)},
			{from: string(domain.StaffActive), to: string(domain.StaffTerminated)},
			{from: string(domain.StaffInactive), to: string(domain.StaffTerminated)},
		},
	),
}

// Statuses возвращает все статусы сущности в порядке объявления
func Statuses(kind EntityKind) []string {
	g, ok := registry[kind]
	if !ok {
		return nil
	}
	return append([]string(nil), g.statuses...)
}

// IsTerminal возвращает true для терминального статуса
func IsTerminal(kind EntityKind, status string) bool {
	g, ok := registry[kind]
	return ok && g.isTerminal(status)
}

// IsKnown возвращает true, если статус входит в перечисление сущности
func IsKnown(kind EntityKind, status string) bool {
	g, ok := registry[kind]
	return ok && g.isKnown(status)
}

// Targets возвращает статусы, в которые ведут ребра из from (без учета условий)
func Targets(kind EntityKind, from string) []string {
	g, ok := registry[kind]
	if !ok {
		return nil
	}
	return append([]string(nil), g.order[from]...)
}
