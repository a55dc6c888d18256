package cancellations

import (
	"time"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/pkg/listquery"
)

var requestSchema = listquery.Schema[*domain.CancellationRequest]{
	"id":            listquery.StringField(func(c *domain.CancellationRequest) string { return c.ID }),
	"appointmentId": listquery.StringField(func(c *domain.CancellationRequest) string { return c.AppointmentID }),
	"customerId":    listquery.StringField(func(c *domain.CancellationRequest) string { return c.CustomerID }),
	"reason":        listquery.StringField(func(c *domain.CancellationRequest) string { return c.Reason }),
	"status":        listquery.StringField(func(c *domain.CancellationRequest) string { return string(c.Status) }),
	"createdAt":     listquery.TimeField(func(c *domain.CancellationRequest) time.Time { return c.CreatedAt }),
}

var requestSearchFields = []string{"id", "appointmentId", "customerId", "reason"}
