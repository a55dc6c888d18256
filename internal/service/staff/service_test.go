package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
	"github.com/m04kA/SMC-BookingOps/pkg/logger"
	"github.com/m04kA/SMC-BookingOps/pkg/metrics"
)

var operator = domain.Actor{ID: "op1", Role: domain.RoleStaff}

func newService() *Service {
	return NewService(memory.NewStore().Staff(), metrics.Nop{}, logger.Nop())
}

func TestCreateAndChangeStatus(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateRequest{Actor: operator, ID: "s1", Name: "  Anna  ", BranchID: "north"})
	require.NoError(t, err)
	assert.Equal(t, "Anna", created.Name)
	assert.Equal(t, domain.StaffActive, created.Status)

	_, err = svc.Create(ctx, &CreateRequest{Actor: operator, Name: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, &CreateRequest{Actor: domain.Actor{ID: "c1", Role: domain.RoleCustomer}, Name: "X"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	inactive, err := svc.ChangeStatus(ctx, &ChangeStatusRequest{Actor: operator, StaffID: "s1", To: domain.StaffInactive, ExpectedVersion: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.StaffInactive, inactive.Status)

	_, err = svc.ChangeStatus(ctx, &ChangeStatusRequest{Actor: operator, StaffID: "s1", To: domain.StaffActive, ExpectedVersion: 1})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.ChangeStatus(ctx, &ChangeStatusRequest{Actor: operator, StaffID: "s1", To: domain.StaffTerminated})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, &ChangeStatusRequest{Actor: operator, StaffID: "s1", To: domain.StaffActive})
	assert.ErrorIs(t, err, transitions.ErrTerminalState)

	_, err = svc.ChangeStatus(ctx, &ChangeStatusRequest{Actor: operator, StaffID: "nobody", To: domain.StaffActive})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestList(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for _, name := range []string{"Zoe", "Adam", "Maria"} {
		_, err := svc.Create(ctx, &CreateRequest{Actor: operator, Name: name})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, &ListRequest{Actor: operator, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Adam", page.Items[0].Name)

	page, err = svc.List(ctx, &ListRequest{Actor: operator, SortKey: "name", SortDir: "desc", Status: "active"})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Zoe", page.Items[0].Name)

	_, err = svc.List(ctx, &ListRequest{Actor: domain.Actor{ID: "c1", Role: domain.RoleCustomer}})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
