package domain

// Notification templates sent to customers
const (
	NotifyBookingReceived    = "booking.received"
	NotifyBookingConfirmed   = "booking.confirmed"
	NotifyBookingRejected    = "booking.rejected"
	NotifyBookingCancelled   = "booking.cancelled"
	NotifyBookingCompleted   = "booking.completed"
	NotifyCancellationDenied = "cancellation.denied"
)

// NotificationFor returns the template sent when a booking enters the status
func NotificationFor(s BookingStatus) (string, bool) {
	switch s {
	case StatusPending:
		return NotifyBookingReceived, true
	case StatusConfirmed:
		return NotifyBookingConfirmed, true
	case StatusRejected:
		return NotifyBookingRejected, true
	case StatusCancelled:
		return NotifyBookingCancelled, true
	case StatusCompleted:
		return NotifyBookingCompleted, true
	}
	return "", false
}
