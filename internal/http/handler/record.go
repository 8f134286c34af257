package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"clinicapi/internal/model"
	"clinicapi/internal/service"
)

// actionSaveAndSend asks record creation to email the report right away.
const actionSaveAndSend = "save_and_send"

type recordRequest struct {
	PatientID     int64      `json:"patient_id"`
	Diagnosis     string     `json:"diagnosis"`
	Date          model.Date `json:"date"`
	LicenseTypes  []string   `json:"license_types"`
	JustifiedDays *int       `json:"justified_days"`
	LicenseStart  model.Date `json:"license_start"`
	LicenseEnd    model.Date `json:"license_end"`
	ReturnDate    model.Date `json:"return_date"`
	Observations  string     `json:"observations"`
	Action        string     `json:"action"`
}

func (r recordRequest) input() service.RecordInput {
	return service.RecordInput{
		Diagnosis:     r.Diagnosis,
		Date:          r.Date,
		LicenseTypes:  r.LicenseTypes,
		JustifiedDays: r.JustifiedDays,
		LicenseStart:  r.LicenseStart,
		LicenseEnd:    r.LicenseEnd,
		ReturnDate:    r.ReturnDate,
		Observations:  r.Observations,
	}
}

type recordCreated struct {
	Record   *model.MedicalRecord    `json:"record"`
	Delivery *service.DeliveryResult `json:"delivery,omitempty"`
}

// PatientRecords returns the patient's history, newest visit first.
//
// @Summary  Patient history
// @Tags     records
// @Produce  json
// @Param    id path int true "patient id"
// @Success  200 {array} model.MedicalRecord
// @Security BearerAuth
// @Router   /api/patients/{id}/records [get]
func PatientRecords(svc service.MedicalRecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		recs, err := svc.History(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		if recs == nil {
			recs = []model.MedicalRecord{}
		}
		return c.JSON(fiber.Map{"data": recs})
	}
}

// CreatePatientRecord stores a record for the patient in the path. With
// action=save_and_send the report is emailed too; a failed email leaves the
// record saved.
//
// @Summary  Create record for patient
// @Tags     records
// @Accept   json
// @Produce  json
// @Param    id     path  int           true  "patient id"
// @Param    action query string        false "save_and_send"
// @Param    body   body  recordRequest true  "record"
// @Success  201 {object} recordCreated
// @Security BearerAuth
// @Router   /api/patients/{id}/records [post]
func CreatePatientRecord(records service.MedicalRecordService, reports service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		var req recordRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		return createRecord(c, records, reports, id, req)
	}
}

// CreateRecord stores a record for the patient named in the body.
//
// @Summary  Create record
// @Tags     records
// @Accept   json
// @Produce  json
// @Param    body body recordRequest true "record with patient_id"
// @Success  201 {object} recordCreated
// @Security BearerAuth
// @Router   /api/records [post]
func CreateRecord(records service.MedicalRecordService, reports service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req recordRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		return createRecord(c, records, reports, req.PatientID, req)
	}
}

func createRecord(c *fiber.Ctx, records service.MedicalRecordService, reports service.ReportService, patientID int64, req recordRequest) error {
	ctx := c.UserContext()
	rec, err := records.Create(ctx, patientID, req.input())
	if err != nil {
		return writeServiceError(c, err)
	}

	res := recordCreated{Record: rec}
	action := req.Action
	if action == "" {
		action = c.Query("action")
	}
	if action == actionSaveAndSend {
		delivery, err := reports.SendRecord(ctx, rec.ID)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int64("record_id", rec.ID).Msg("send after save failed")
			delivery = &service.DeliveryResult{Error: "email delivery failed"}
		}
		res.Delivery = delivery
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GetRecord returns a record with its patient and company details.
//
// @Summary  Get record
// @Tags     records
// @Produce  json
// @Param    id path int true "record id"
// @Success  200 {object} model.RecordDetail
// @Security BearerAuth
// @Router   /api/records/{id} [get]
func GetRecord(svc service.MedicalRecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		d, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	}
}

// UpdateRecord edits a record. Its company snapshot is not changed.
//
// @Summary  Update record
// @Tags     records
// @Accept   json
// @Produce  json
// @Param    id   path int           true "record id"
// @Param    body body recordRequest true "record"
// @Success  200 {object} model.MedicalRecord
// @Security BearerAuth
// @Router   /api/records/{id} [put]
func UpdateRecord(svc service.MedicalRecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		var req recordRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		rec, err := svc.Update(c.UserContext(), id, req.input())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	}
}

// DeleteRecord removes a record.
//
// @Summary  Delete record
// @Tags     records
// @Param    id path int true "record id"
// @Success  204
// @Security BearerAuth
// @Router   /api/records/{id} [delete]
func DeleteRecord(svc service.MedicalRecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RecordPDF streams the record's report inline.
//
// @Summary  Record PDF
// @Tags     reports
// @Produce  application/pdf
// @Param    id path int true "record id"
// @Success  200 {file} binary
// @Security BearerAuth
// @Router   /api/records/{id}/pdf [get]
func RecordPDF(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		pdf, err := svc.Generate(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="medical_record_%d.pdf"`, id))
		c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate, max-age=0")
		return c.Send(pdf)
	}
}

// SendRecord emails the record's report to its company. A delivery that
// did not happen answers 502 with the outcome in the body.
//
// @Summary  Email record
// @Tags     reports
// @Produce  json
// @Param    id path int true "record id"
// @Success  200 {object} service.DeliveryResult
// @Failure  502 {object} service.DeliveryResult
// @Security BearerAuth
// @Router   /api/records/{id}/send [post]
func SendRecord(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		res, err := svc.SendRecord(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		status := fiber.StatusOK
		if !res.Sent {
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(res)
	}
}
