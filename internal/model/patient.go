package model

// Patient is an individual covered by a company's occupational health plan.
type Patient struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	DocumentNumber string `json:"document_number"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Age            *int   `json:"age"`
	CompanyID      *int64 `json:"company_id"`
	CompanyName    string `json:"company_name,omitempty"`
}

// FullName joins name and surname the way reports print them.
func (p Patient) FullName() string {
	return joinName(p.Name, p.Surname)
}
