package model

// Company is an employer that owns patients and receives medical reports.
// Email may hold several comma-separated addresses.
type Company struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// CompanySummary is the short form listed when selecting daily report recipients.
type CompanySummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
