package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) DashboardStats(c *fiber.Ctx) error {
	stats, err := handler.dashboardService.Stats(strings.TrimSpace(c.Query("range")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buildStatsPayload(stats))
}

func (handler *Handler) DashboardTopMoods(c *fiber.Ctx) error {
	limit, err := parseLimit(c)
	if err != nil {
		return respondError(c, err)
	}
	moods, err := handler.dashboardService.TopMoods(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(moods)
}

func (handler *Handler) DashboardUserActivity(c *fiber.Ctx) error {
	limit, err := parseLimit(c)
	if err != nil {
		return respondError(c, err)
	}
	activity, err := handler.dashboardService.UserActivity(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buildActivityPayload(activity))
}
