package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/pkg/metrics"
)

func TestAuth(t *testing.T) {
	var got domain.Actor
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		require.True(t, ok)
		got = actor
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		userID string
		role   string
		code   int
		want   domain.Actor
	}{
		{name: "missing user", code: http.StatusUnauthorized},
		{name: "default role", userID: "c1", code: http.StatusNoContent, want: domain.Actor{ID: "c1", Role: domain.RoleCustomer}},
		{name: "staff", userID: "op1", role: "Staff", code: http.StatusNoContent, want: domain.Actor{ID: "op1", Role: domain.RoleStaff}},
		{name: "system from outside", userID: "x", role: "system", code: http.StatusForbidden},
		{name: "unknown role", userID: "x", role: "admin", code: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = domain.Actor{}
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
			if tt.userID != "" {
				req.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				req.Header.Set(HeaderUserRole, tt.role)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetActor_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetActor(req.Context())
	assert.False(t, ok)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, id := range []string{"b1", "b2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/bookings/{bookingId}", "404")))
}
