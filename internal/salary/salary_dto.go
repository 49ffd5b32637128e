package salary

type CreateSalaryRequest struct {
	UserID      string `json:"user_id" binding:"required,uuid"`
	BaseSalary  int    `json:"base_salary" binding:"min=0"`
	OvertimePay int    `json:"overtime_pay" binding:"min=0"`
	Bonus       int    `json:"bonus" binding:"min=0"`
	PaymentDate string `json:"payment_date" binding:"required"`
	Month       int    `json:"month" binding:"required,min=1,max=12"`
	Year        int    `json:"year" binding:"required,min=2000,max=2200"`
}

// UpdateSalaryRequest accepts any subset of the mutable fields.
type UpdateSalaryRequest struct {
	BaseSalary  *int    `json:"base_salary" binding:"omitempty,min=0"`
	OvertimePay *int    `json:"overtime_pay" binding:"omitempty,min=0"`
	Bonus       *int    `json:"bonus" binding:"omitempty,min=0"`
	PaymentDate *string `json:"payment_date"`
	Month       *int    `json:"month" binding:"omitempty,min=1,max=12"`
	Year        *int    `json:"year" binding:"omitempty,min=2000,max=2200"`
}

type SalaryResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	BaseSalary  int    `json:"base_salary"`
	OvertimePay int    `json:"overtime_pay"`
	Bonus       int    `json:"bonus"`
	GrossSalary int    `json:"gross_salary"`
	NetSalary   int    `json:"net_salary"`
	PaymentDate string `json:"payment_date"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	CreatedAt   string `json:"created_at"`
}
