package schedule

type ScheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
	Fee  int64  `json:"fee" binding:"gte=0"`
}
