package model

// Department groups doctors by medical discipline. Doctors is a denormalized
// copy of the doctors collection filtered by department name; the directory
// service rebuilds it whenever a doctor is added, edited or removed.
type Department struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Doctors     []Doctor `json:"doctors"`
}

type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type UpdateDepartmentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}
