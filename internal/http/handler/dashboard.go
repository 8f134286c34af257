package handler

import (
	"github.com/gofiber/fiber/v2"

	"clinicapi/internal/service"
)

// Dashboard returns the filtered companies and patients plus the patient
// selected by document number, if any.
//
// @Summary  Dashboard
// @Tags     dashboard
// @Produce  json
// @Param    search_company_name     query string false "company name filter"
// @Param    search_patient_document query string false "patient document number"
// @Success  200 {object} service.Dashboard
// @Security BearerAuth
// @Router   /api/dashboard [get]
func Dashboard(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Load(c.UserContext(), c.Query("search_company_name"), c.Query("search_patient_document"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
