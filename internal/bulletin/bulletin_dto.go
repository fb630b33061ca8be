package bulletin

type PostRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required,max=5000"`
}

type PostResponse struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Editable  bool   `json:"editable"`
}

func mapToResponse(p Post, editable bool) PostResponse {
	ts := ""
	if !p.Timestamp.IsZero() {
		ts = p.Timestamp.Format(TimestampLayout)
	}
	return PostResponse{
		ID:        p.ID,
		Timestamp: ts,
		Author:    p.Author,
		Title:     p.Title,
		Content:   p.Content,
		Editable:  editable,
	}
}
