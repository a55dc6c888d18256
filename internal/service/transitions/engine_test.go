package transitions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
)

var allFacts = Facts{PaymentConfirmed: true, AssignedStaff: 1}

func TestTransition_TerminalStatesRejectEverything(t *testing.T) {
	for _, kind := range []EntityKind{KindBooking, KindAppointment, KindCancellation, KindStaff} {
		for _, from := range Statuses(kind) {
			if !IsTerminal(kind, from) {
				continue
			}
			for _, to := range Statuses(kind) {
				err := Transition(kind, from, to, allFacts)
				assert.ErrorIs(t, err, ErrTerminalState, "%s %s -> %s", kind, from, to)
				assert.Equal(t, ReasonTerminalState, ReasonOf(err))
			}
			// даже неизвестный целевой статус дает terminal-state
			assert.ErrorIs(t, Transition(kind, from, "bogus", allFacts), ErrTerminalState)
		}
	}
}

func TestTransition_PairsOutsideGraphAreInvalid(t *testing.T) {
	for _, kind := range []EntityKind{KindBooking, KindAppointment, KindCancellation, KindStaff} {
		for _, from := range Statuses(kind) {
			if IsTerminal(kind, from) {
				continue
			}
			targets := make(map[string]bool)
			for _, to := range Targets(kind, from) {
				targets[to] = true
			}
			for _, to := range Statuses(kind) {
				err := Transition(kind, from, to, allFacts)
				if targets[to] {
					assert.NoError(t, err, "%s %s -> %s", kind, from, to)
					continue
				}
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s %s -> %s", kind, from, to)
				assert.Equal(t, ReasonInvalidTransition, ReasonOf(err))
			}
		}
	}
}

func TestCheckBooking(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.BookingStatus
		to     domain.BookingStatus
		facts  Facts
		reason string
	}{
		{name: "draft to pending after payment", from: domain.StatusDraft, to: domain.StatusPending, facts: Facts{PaymentConfirmed: true}},
		{name: "draft to pending without payment", from: domain.StatusDraft, to: domain.StatusPending, reason: ReasonPreconditionFailed},
		{name: "draft expires", from: domain.StatusDraft, to: domain.StatusExpired},
		{name: "pending confirmed", from: domain.StatusPending, to: domain.StatusConfirmed},
		{name: "pending rejected", from: domain.StatusPending, to: domain.StatusRejected},
		{name: "confirmed started with staff", from: domain.StatusConfirmed, to: domain.StatusInProgress, facts: Facts{AssignedStaff: 2}},
		{name: "confirmed started without staff", from: domain.StatusConfirmed, to: domain.StatusInProgress, reason: ReasonPreconditionFailed},
		{name: "in-progress completed", from: domain.StatusInProgress, to: domain.StatusCompleted},
		{name: "in-progress cannot be cancelled", from: domain.StatusInProgress, to: domain.StatusCancelled, reason: ReasonInvalidTransition},
		{name: "pending cannot complete", from: domain.StatusPending, to: domain.StatusCompleted, reason: ReasonInvalidTransition},
		{name: "completed cannot be cancelled", from: domain.StatusCompleted, to: domain.StatusCancelled, reason: ReasonTerminalState},
		{name: "expired cannot be paid", from: domain.StatusExpired, to: domain.StatusPending, facts: Facts{PaymentConfirmed: true}, reason: ReasonTerminalState},
		{name: "unknown target", from: domain.StatusPending, to: "archived", reason: ReasonValidation},
		{name: "unknown source", from: "archived", to: domain.StatusPending, reason: ReasonValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBooking(tt.from, tt.to, tt.facts)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.reason, ReasonOf(err))
			assert.True(t, IsRejection(err))
		})
	}
}

func TestCheckInitialBooking(t *testing.T) {
	assert.NoError(t, CheckInitialBooking(domain.StatusDraft, true))
	assert.NoError(t, CheckInitialBooking(domain.StatusPending, false))
	assert.ErrorIs(t, CheckInitialBooking(domain.StatusPending, true), ErrPreconditionFailed)
	assert.ErrorIs(t, CheckInitialBooking(domain.StatusConfirmed, false), ErrInvalidTransition)
	assert.ErrorIs(t, CheckInitialBooking("bogus", false), ErrUnknownStatus)
}

func TestOtherGraphs(t *testing.T) {
	assert.NoError(t, CheckAppointment(domain.AppointmentConfirmed, domain.AppointmentInProgress))
	assert.ErrorIs(t, CheckAppointment(domain.AppointmentInProgress, domain.AppointmentCancelled), ErrInvalidTransition)

	assert.NoError(t, CheckCancellation(domain.CancellationPending, domain.CancellationDenied))
	assert.ErrorIs(t, CheckCancellation(domain.CancellationApproved, domain.CancellationDenied), ErrTerminalState)

	assert.NoError(t, CheckStaff(domain.StaffInactive, domain.StaffActive))
	assert.NoError(t, CheckStaff(domain.StaffInactive, domain.StaffTerminated))
	assert.ErrorIs(t, CheckStaff(domain.StaffTerminated, domain.StaffActive), ErrTerminalState)
	assert.ErrorIs(t, CheckStaff(domain.StaffActive, domain.StaffActive), ErrInvalidTransition)
}

func TestAllowed(t *testing.T) {
	assert.Equal(t,
		[]string{"expired"},
		Allowed(KindBooking, string(domain.StatusDraft), Facts{}),
	)
	assert.Equal(t,
		[]string{"pending", "expired"},
		Allowed(KindBooking, string(domain.StatusDraft), Facts{PaymentConfirmed: true}),
	)
	assert.Empty(t, Allowed(KindBooking, string(domain.StatusCompleted), allFacts))
}

func TestUnknownKind(t *testing.T) {
	err := Transition("invoice", "a", "b", Facts{})
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, ReasonValidation, ReasonOf(err))
	assert.Equal(t, "", ReasonOf(nil))
}

func TestBookingFacts(t *testing.T) {
	f := BookingFacts(&domain.Booking{PaymentStatus: domain.PaymentPaid, AssignedStaffIDs: []string{"a", "b"}})
	assert.True(t, f.PaymentConfirmed)
	assert.Equal(t, 2, f.AssignedStaff)
}
