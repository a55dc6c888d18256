package file_cancellation

// FileCancellationRequest HTTP request model
type FileCancellationRequest struct {
	AppointmentID string `json:"appointmentId"`
	Reason        string `json:"reason"`
}
