package staff

type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=4"`
}

type UpdateStaffRequest struct {
	Name     string `json:"name" binding:"omitempty,max=100"`
	Password string `json:"password" binding:"omitempty,min=4"`
}

type StaffResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func mapToResponse(s Staff) StaffResponse {
	return StaffResponse{ID: s.ID, Name: s.Name}
}
