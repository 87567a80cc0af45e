package tutor

type ProfileRequest struct {
	Subjects string `json:"subjects" binding:"required"`
	Style    string `json:"style" binding:"required"`
	PhotoURL string `json:"photoUrl" binding:"required,url"`
}
