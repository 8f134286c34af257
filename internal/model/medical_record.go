package model

import (
	"strings"
	"time"
)

// License type tags offered when recording a work leave.
const (
	LicenseART                  = "ART"
	LicenseEnfermedadInculpable = "Enfermedad Inculpable"
)

// MedicalRecord is one clinical visit, optionally carrying a work-leave period.
//
// CompanyID is captured from the patient when the record is created and is
// never rewritten afterwards, so a report keeps naming the employer at the
// time of the visit even if the patient later changes company.
type MedicalRecord struct {
	ID            int64     `json:"id"`
	PatientID     int64     `json:"patient_id"`
	CompanyID     int64     `json:"company_id"`
	Diagnosis     string    `json:"diagnosis"`
	Date          Date      `json:"date"`
	LicenseType   string    `json:"license_type"`
	JustifiedDays *int      `json:"justified_days"`
	LicenseStart  Date      `json:"license_start"`
	LicenseEnd    Date      `json:"license_end"`
	ReturnDate    Date      `json:"return_date"`
	Observations  string    `json:"observations"`
	CreatedAt     time.Time `json:"created_at"`
}

// RecordDetail is a medical record joined with the patient and company fields
// needed to render or mail it.
type RecordDetail struct {
	MedicalRecord
	PatientName    string `json:"patient_name"`
	PatientSurname string `json:"patient_surname"`
	DocumentNumber string `json:"document_number"`
	CompanyName    string `json:"company_name"`
	CompanyEmail   string `json:"company_email"`
}

// PatientFullName joins the patient name and surname.
func (d RecordDetail) PatientFullName() string {
	return joinName(d.PatientName, d.PatientSurname)
}

// DailyRecordRef identifies one of today's records together with the company
// display pair used to group the daily email.
type DailyRecordRef struct {
	RecordID     int64
	CompanyEmail string
	CompanyName  string
}

// JoinLicenseTypes joins the selected tags into the stored display string.
func JoinLicenseTypes(tags []string) string {
	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, ", ")
}

func joinName(name, surname string) string {
	return strings.TrimSpace(name + " " + surname)
}
