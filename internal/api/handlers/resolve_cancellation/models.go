package resolve_cancellation

// ResolveCancellationRequest HTTP request model
// decision: approved или denied
type ResolveCancellationRequest struct {
	Decision        string `json:"decision"`
	ExpectedVersion int64  `json:"expectedVersion"`
}
