package handler

import (
	"github.com/gofiber/fiber/v2"

	"clinicapi/internal/model"
	"clinicapi/internal/service"
)

type patientRequest struct {
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	DocumentNumber string `json:"document_number"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Age            *int   `json:"age"`
	CompanyID      *int64 `json:"company_id"`
}

func (r patientRequest) model() model.Patient {
	return model.Patient{
		Name:           r.Name,
		Surname:        r.Surname,
		DocumentNumber: r.DocumentNumber,
		Phone:          r.Phone,
		Email:          r.Email,
		Age:            r.Age,
		CompanyID:      r.CompanyID,
	}
}

// ListPatients lists patients, optionally filtered by name, surname or document.
//
// @Summary  List patients
// @Tags     patients
// @Produce  json
// @Param    search query string false "name, surname or document contains"
// @Param    limit  query int    false "page size"
// @Param    offset query int    false "page offset"
// @Security BearerAuth
// @Router   /api/patients [get]
func ListPatients(svc service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, code := pageParams(c)
		if code != "" {
			return writeError(c, fiber.StatusBadRequest, code, "invalid pagination parameters")
		}
		res, err := svc.List(c.UserContext(), c.Query("search"), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreatePatient stores a new patient. A company is required.
//
// @Summary  Create patient
// @Tags     patients
// @Accept   json
// @Produce  json
// @Param    body body patientRequest true "patient"
// @Success  201 {object} model.Patient
// @Failure  400 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Security BearerAuth
// @Router   /api/patients [post]
func CreatePatient(svc service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req patientRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		p, err := svc.Create(c.UserContext(), req.model())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// GetPatient returns one patient.
//
// @Summary  Get patient
// @Tags     patients
// @Produce  json
// @Param    id path int true "patient id"
// @Success  200 {object} model.Patient
// @Security BearerAuth
// @Router   /api/patients/{id} [get]
func GetPatient(svc service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// UpdatePatient replaces the patient's fields.
//
// @Summary  Update patient
// @Tags     patients
// @Accept   json
// @Produce  json
// @Param    id   path int            true "patient id"
// @Param    body body patientRequest true "patient"
// @Success  200 {object} model.Patient
// @Security BearerAuth
// @Router   /api/patients/{id} [put]
func UpdatePatient(svc service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		var req patientRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		p, err := svc.Update(c.UserContext(), id, req.model())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// DeletePatient removes the patient and all of the patient's records.
//
// @Summary  Delete patient
// @Tags     patients
// @Param    id path int true "patient id"
// @Success  204
// @Security BearerAuth
// @Router   /api/patients/{id} [delete]
func DeletePatient(svc service.PatientService) fiber.Handler {
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
