package event

type EventRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date"`
	Description string `json:"description" binding:"max=2000"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type EventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
}

func mapToResponse(e Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		StartDate:   formatDate(e.StartDate),
		EndDate:     formatDate(e.EndDate),
		Description: e.Description,
		Color:       e.Color,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
	}
}
