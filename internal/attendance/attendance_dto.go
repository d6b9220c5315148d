package attendance

type PunchRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

type PunchResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PunchDate  string  `json:"punch_date"`
	InTime     string  `json:"in_time"`
	OutTime    *string `json:"out_time,omitempty"`
	Status     string  `json:"status"`
	Similarity float64 `json:"similarity"`
}
