package controller

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"
)

// respondChart serves a rendered PNG either raw or, with ?format=base64,
// as a JSON-wrapped data URI for embedding.
func respondChart(ctx echo.Context, png []byte) error {
	if ctx.QueryParam("format") == "base64" {
		return ctx.JSON(http.StatusOK, map[string]string{
			"image": "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		})
	}
	return ctx.Blob(http.StatusOK, "image/png", png)
}

func (c *Controller) ChartDaily(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}
	png, err := c.chartsService.Daily(ctx.Request().Context(), user.ID, intQuery(ctx, "days", 30))
	if err != nil {
		return err
	}
	return respondChart(ctx, png)
}

func (c *Controller) ChartCost(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}
	png, err := c.chartsService.Cost(ctx.Request().Context(), user.ID, intQuery(ctx, "days", 30))
	if err != nil {
		return err
	}
	return respondChart(ctx, png)
}

func (c *Controller) ChartApplianceBar(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}
	png, err := c.chartsService.ApplianceBar(ctx.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respondChart(ctx, png)
}

func (c *Controller) ChartAppliancePie(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}
	png, err := c.chartsService.AppliancePie(ctx.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respondChart(ctx, png)
}

func (c *Controller) ChartMonthly(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}
	png, err := c.chartsService.Monthly(ctx.Request().Context(), user.ID, intQuery(ctx, "months", 12))
	if err != nil {
		return err
	}
	return respondChart(ctx, png)
}

func (c *Controller) ChartWeeklyComparison(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}
	png, err := c.chartsService.WeeklyComparison(ctx.Request().Context(), user.ID, intQuery(ctx, "days", 30))
	if err != nil {
		return err
	}
	return respondChart(ctx, png)
}

func (c *Controller) ChartHourlyPattern(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}
	png, err := c.chartsService.HourlyPattern(ctx.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respondChart(ctx, png)
}

// ChartDashboard bundles the main dashboard charts in one response, each
// base64-encoded.
func (c *Controller) ChartDashboard(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	bundle, err := c.chartsService.Dashboard(ctx.Request().Context(), user.ID, intQuery(ctx, "days", 30))
	if err != nil {
		return err
	}

	encode := func(png []byte) string {
		return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	}
	return ctx.JSON(http.StatusOK, map[string]string{
		"daily":      encode(bundle.Daily),
		"cost":       encode(bundle.Cost),
		"appliances": encode(bundle.Appliances),
		"weekly":     encode(bundle.Weekly),
	})
}
