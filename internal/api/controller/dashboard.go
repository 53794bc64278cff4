package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ebalakin/enertrack/internal/domain"
)

func (c *Controller) DashboardSummary(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	summary, err := c.energyService.Summary(ctx.Request().Context(), user.ID, intQuery(ctx, "days", 30))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string]*domain.DashboardSummary{"stats": summary})
}

func (c *Controller) Insights(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	insights, err := c.energyService.Insights(ctx.Request().Context(), user)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string][]domain.Insight{"insights": insights})
}
