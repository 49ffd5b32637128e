package user

type CreateUserRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Name         string `json:"name" binding:"required"`
	EmployeeType string `json:"employee_type" binding:"required,oneof=EMPLOYEE ADMIN"`
	StartDate    string `json:"start_date" binding:"required"`
}

// UpdateUserRequest accepts any subset of the mutable fields; nil means
// "leave unchanged".
type UpdateUserRequest struct {
	Name         *string `json:"name"`
	EmployeeType *string `json:"employee_type" binding:"omitempty,oneof=EMPLOYEE ADMIN"`
	StartDate    *string `json:"start_date"`
	IsActive     *bool   `json:"is_active"`
}

type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	EmployeeType string `json:"employee_type"`
	StartDate    string `json:"start_date"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
