package booking

type CreateBookingRequest struct {
	ScheduleID int64 `json:"ScheduleId" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
