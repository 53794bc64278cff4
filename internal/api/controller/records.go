package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/pkg/store"
)

func intQuery(ctx echo.Context, name string, fallback int) int {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func (c *Controller) AddRecord(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	req := new(domain.AddRecordRequest)
	if err := ctx.Bind(req); err != nil {
		return err
	}

	rec, err := c.energyService.AddRecord(ctx.Request().Context(), user, req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, rec)
}

func (c *Controller) ListRecords(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	opts := store.ListEnergyRecordsOpts{
		UserID: user.ID,
		Limit:  uint64(intQuery(ctx, "limit", 100)),
	}
	if days := intQuery(ctx, "days", 0); days > 0 {
		since := time.Now().AddDate(0, 0, -days)
		opts.Since = &since
	}

	recs, err := c.energyService.ListRecords(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, recs)
}

func (c *Controller) DailyConsumption(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	daily, err := c.energyService.DailyConsumption(ctx.Request().Context(), user.ID, intQuery(ctx, "days", 30))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, daily)
}

func (c *Controller) ApplianceConsumption(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	apps, err := c.energyService.ApplianceConsumption(ctx.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, apps)
}

func (c *Controller) MonthlyConsumption(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	months, err := c.energyService.MonthlyConsumption(ctx.Request().Context(), user.ID, intQuery(ctx, "months", 12))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, months)
}

func (c *Controller) HourlyPattern(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	hours, err := c.energyService.HourlyPattern(ctx.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, hours)
}

func (c *Controller) ImportUsage(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	req := new(domain.ImportUsageRequest)
	if err := ctx.Bind(req); err != nil {
		return err
	}

	resp, err := c.importerService.ImportFromURL(ctx.Request().Context(), user, req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, resp)
}
