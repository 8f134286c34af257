package handler

import (
	"github.com/gofiber/fiber/v2"

	"clinicapi/internal/model"
	"clinicapi/internal/service"
)

type companyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func (r companyRequest) model() model.Company {
	return model.Company{Name: r.Name, Address: r.Address, Phone: r.Phone, Email: r.Email}
}

// ListCompanies lists companies, optionally filtered by name.
//
// @Summary  List companies
// @Tags     companies
// @Produce  json
// @Param    search query string false "name contains"
// @Param    limit  query int    false "page size"
// @Param    offset query int    false "page offset"
// @Security BearerAuth
// @Router   /api/companies [get]
func ListCompanies(svc service.CompanyService) fiber.Handler {
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

// CreateCompany stores a new company.
//
// @Summary  Create company
// @Tags     companies
// @Accept   json
// @Produce  json
// @Param    body body companyRequest true "company"
// @Success  201 {object} model.Company
// @Failure  409 {object} errorPayload
// @Security BearerAuth
// @Router   /api/companies [post]
func CreateCompany(svc service.CompanyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req companyRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		co, err := svc.Create(c.UserContext(), req.model())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(co)
	}
}

// GetCompany returns one company.
//
// @Summary  Get company
// @Tags     companies
// @Produce  json
// @Param    id path int true "company id"
// @Success  200 {object} model.Company
// @Failure  404 {object} errorPayload
// @Security BearerAuth
// @Router   /api/companies/{id} [get]
func GetCompany(svc service.CompanyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		co, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(co)
	}
}

// UpdateCompany replaces the company's fields.
//
// @Summary  Update company
// @Tags     companies
// @Accept   json
// @Produce  json
// @Param    id   path int            true "company id"
// @Param    body body companyRequest true "company"
// @Success  200 {object} model.Company
// @Security BearerAuth
// @Router   /api/companies/{id} [put]
func UpdateCompany(svc service.CompanyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		var req companyRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		co, err := svc.Update(c.UserContext(), id, req.model())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(co)
	}
}

// DeleteCompany removes the company, its patients and their records.
//
// @Summary  Delete company
// @Tags     companies
// @Param    id path int true "company id"
// @Success  204
// @Security BearerAuth
// @Router   /api/companies/{id} [delete]
func DeleteCompany(svc service.CompanyService) fiber.Handler {
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
