package attendance

type ApplyRequest struct {
	StaffName string `json:"staff_name"`
	LeaveType string `json:"leave_type" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Remarks   string `json:"remarks" binding:"max=500"`
}

type ListFilter struct {
	StaffName  string `form:"staff_name"`
	LeaveType  string `form:"leave_type"`
	FiscalYear int    `form:"fiscal_year"`
	From       string `form:"from"`
	To         string `form:"to"`
}

type RecordResponse struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	StaffName     string  `json:"staff_name"`
	LeaveType     string  `json:"leave_type"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	DurationHours float64 `json:"duration_hours"`
	DayEquivalent float64 `json:"day_equivalent"`
	FiscalYear    int     `json:"fiscal_year"`
	Remarks       string  `json:"remarks,omitempty"`
}

type ApplyResponse struct {
	ID        string           `json:"id"`
	Requested int              `json:"requested"`
	Succeeded int              `json:"succeeded"`
	Days      []RecordResponse `json:"days"`
}

type ApplicationResponse struct {
	ID        string           `json:"id"`
	StaffName string           `json:"staff_name"`
	LeaveType string           `json:"leave_type"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	TotalDays float64          `json:"total_days"`
	Days      []RecordResponse `json:"days"`
}

type SummaryRow struct {
	StaffName  string  `json:"staff_name"`
	LeaveType  string  `json:"leave_type"`
	FiscalYear int     `json:"fiscal_year"`
	Entries    int     `json:"entries"`
	Hours      float64 `json:"hours"`
	Days       float64 `json:"days"`
}

func mapToResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:            r.ID,
		Date:          r.DateString(),
		StaffName:     r.StaffName,
		LeaveType:     string(r.LeaveType),
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		DurationHours: r.DurationHours,
		DayEquivalent: r.DayEquivalent,
		FiscalYear:    r.FiscalYear,
		Remarks:       r.Remarks,
	}
}

func mapToResponses(rows []Record) []RecordResponse {
	res := make([]RecordResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
