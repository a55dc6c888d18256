package create_staff

// CreateStaffRequest HTTP request model
// id опционален, без него генерируется UUID
type CreateStaffRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	BranchID string `json:"branchId"`
}
