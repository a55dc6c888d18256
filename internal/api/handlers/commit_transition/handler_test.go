package commit_transition

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
	"github.com/m04kA/SMC-BookingOps/pkg/keylock"
	"github.com/m04kA/SMC-BookingOps/pkg/logger"
	"github.com/m04kA/SMC-BookingOps/pkg/metrics"
	"github.com/m04kA/SMC-BookingOps/pkg/txmanager"
)

type nopNotifier struct{}

func (nopNotifier) Notify(ctx context.Context, recipient, template string, data map[string]string) error {
	return nil
}

func newRouter(t *testing.T, seed ...*domain.Booking) http.Handler {
	t.Helper()
	store := memory.NewStore()
	for _, b := range seed {
		_, err := store.Bookings().Create(context.Background(), b)
		require.NoError(t, err)
	}
	svc := bookings.NewService(store.Bookings(), store.Staff(), keylock.New(), txmanager.Nop{}, nopNotifier{}, metrics.Nop{}, time.Second, logger.Nop())

	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/bookings/{bookingId}/transitions", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodPost)
	return r
}

func booking(id string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		CustomerID:      "c1",
		ServiceCode:     "wash-basic",
		ScheduledDate:   time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Amount:          decimal.RequireFromString("350.00"),
		Status:          status,
		PaymentStatus:   domain.PaymentPaid,
	}
}

func post(r http.Handler, bookingID, role, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bookings/"+bookingID+"/transitions", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "u1")
	req.Header.Set(middleware.HeaderUserRole, role)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Confirms(t *testing.T) {
	r := newRouter(t, booking("b1", domain.StatusPending))

	rec := post(r, "b1", "staff", `{"to":"confirmed","expectedVersion":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handlers.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, int64(2), resp.Version)
	assert.Equal(t, "350.00", resp.Amount)
}

func TestHandle_RejectionCarriesReason(t *testing.T) {
	r := newRouter(t,
		booking("done", domain.StatusCompleted),
		booking("conf", domain.StatusConfirmed),
		booking("pend", domain.StatusPending),
	)

	tests := []struct {
		name      string
		bookingID string
		body      string
		reason    string
	}{
		{name: "terminal", bookingID: "done", body: `{"to":"cancelled"}`, reason: transitions.ReasonTerminalState},
		{name: "no staff", bookingID: "conf", body: `{"to":"in-progress"}`, reason: transitions.ReasonPreconditionFailed},
		{name: "no edge", bookingID: "pend", body: `{"to":"completed"}`, reason: transitions.ReasonInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(r, tt.bookingID, "staff", tt.body)
			require.Equal(t, http.StatusConflict, rec.Code)

			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.reason, resp.Reason)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	r := newRouter(t, booking("b1", domain.StatusPending))

	tests := []struct {
		name      string
		bookingID string
		role      string
		body      string
		code      int
	}{
		{name: "unknown status", bookingID: "b1", role: "staff", body: `{"to":"archived"}`, code: http.StatusBadRequest},
		{name: "unknown field", bookingID: "b1", role: "staff", body: `{"to":"confirmed","force":true}`, code: http.StatusBadRequest},
		{name: "stale version", bookingID: "b1", role: "staff", body: `{"to":"confirmed","expectedVersion":5}`, code: http.StatusConflict},
		{name: "not found", bookingID: "nope", role: "staff", body: `{"to":"confirmed"}`, code: http.StatusNotFound},
		{name: "foreign customer", bookingID: "b1", role: "customer", body: `{"to":"cancelled"}`, code: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(r, tt.bookingID, tt.role, tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}
