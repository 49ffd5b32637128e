package overtime

type CreateOvertimeRequest struct {
	UserID string  `json:"user_id" binding:"required,uuid"`
	Date   string  `json:"date" binding:"required"`
	Hours  float64 `json:"hours" binding:"required,gt=0"`
	Reason string  `json:"reason"`
}

// UpdateOvertimeRequest accepts any subset of the mutable fields. Status is
// changed through the approve/reject endpoints, not here.
type UpdateOvertimeRequest struct {
	Date   *string  `json:"date"`
	Hours  *float64 `json:"hours" binding:"omitempty,gt=0"`
	Reason *string  `json:"reason"`
}

type OvertimeResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Date      string  `json:"date"`
	Hours     float64 `json:"hours"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status"`
	DecidedBy *string `json:"decided_by,omitempty"`
	DecidedAt *string `json:"decided_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}
