package assign_staff

// AssignStaffRequest HTTP request model
// StaffIDs заменяет текущий список целиком, пустой список снимает всех
type AssignStaffRequest struct {
	StaffIDs        []string `json:"staffIds"`
	ExpectedVersion int64    `json:"expectedVersion"`
}
