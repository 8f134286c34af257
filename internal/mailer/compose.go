package mailer

import (
	"fmt"

	"clinicapi/internal/model"
)

// Composer builds the clinic's report emails.
type Composer struct {
	// Signature closes every body.
	Signature string
}

// RecordEnvelope builds the email for a single record with its PDF attached.
func (c Composer) RecordEnvelope(d model.RecordDetail, pdf []byte) Envelope {
	date := d.Date.String()
	return Envelope{
		Recipients: d.CompanyEmail,
		Subject:    fmt.Sprintf("Informe Médico del Paciente: %s %s (%s)", d.PatientName, d.PatientSurname, date),
		Body: fmt.Sprintf(
			"Estimado/a %s,\n\nAdjunto encontrará el informe médico del paciente %s %s, atendido el %s.\n\nSaludos cordiales,\n%s",
			d.CompanyName, d.PatientName, d.PatientSurname, date, c.Signature),
		Attachments: []Attachment{{
			Filename: fmt.Sprintf("informe_medico_%s_%s.pdf", d.DocumentNumber, date),
			Content:  pdf,
		}},
	}
}

// DailyEnvelope builds the grouped email a company receives for the day.
func (c Composer) DailyEnvelope(companyEmail, companyName string, attachments []Attachment) Envelope {
	return Envelope{
		Recipients: companyEmail,
		Subject:    "Informes Médicos del Día - " + companyName,
		Body: fmt.Sprintf(
			"Estimado/a %s,\n\nAdjunto encontrará los informes médicos correspondientes al día de hoy.\n\nSaludos cordiales,\n%s",
			companyName, c.Signature),
		Attachments: attachments,
	}
}

// DailyAttachmentName names a record's PDF inside the daily email.
func DailyAttachmentName(recordID int64) string {
	return fmt.Sprintf("registro_%d.pdf", recordID)
}
