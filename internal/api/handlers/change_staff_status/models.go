package change_staff_status

// ChangeStatusRequest HTTP request model
type ChangeStatusRequest struct {
	Status          string `json:"status"`
	ExpectedVersion int64  `json:"expectedVersion"`
}
