package leave

type CreateLeaveRequest struct {
	UserID    string `json:"user_id" binding:"required,uuid"`
	LeaveType string `json:"leave_type" binding:"required,oneof=ANNUAL SICK UNPAID PERSONAL OTHER"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

// UpdateLeaveRequest accepts any subset of the mutable fields. Status is
// changed through the approve/reject endpoints, not here.
type UpdateLeaveRequest struct {
	LeaveType *string `json:"leave_type" binding:"omitempty,oneof=ANNUAL SICK UNPAID PERSONAL OTHER"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Reason    *string `json:"reason"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	DecidedBy       *string `json:"decided_by,omitempty"`
	DecidedAt       *string `json:"decided_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
}
