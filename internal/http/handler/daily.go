package handler

import (
	"github.com/gofiber/fiber/v2"

	"clinicapi/internal/model"
	"clinicapi/internal/service"
)

type dailySendRequest struct {
	CompanyIDs []int64 `json:"company_ids"`
}

// DailyCandidates lists companies with records created today.
//
// @Summary  Daily report candidates
// @Tags     reports
// @Produce  json
// @Success  200 {array} model.CompanySummary
// @Security BearerAuth
// @Router   /api/daily-reports/companies [get]
func DailyCandidates(svc service.DailyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cs, err := svc.Candidates(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		if cs == nil {
			cs = []model.CompanySummary{}
		}
		return c.JSON(fiber.Map{"data": cs})
	}
}

// DailySend emails today's records of the selected companies, one email per
// company address and name.
//
// @Summary  Send daily reports
// @Tags     reports
// @Accept   json
// @Produce  json
// @Param    body body dailySendRequest true "selected companies"
// @Success  200 {object} service.DailyResult
// @Failure  400 {object} errorPayload
// @Security BearerAuth
// @Router   /api/daily-reports/send [post]
func DailySend(svc service.DailyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dailySendRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		res, err := svc.Send(c.UserContext(), req.CompanyIDs)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
