package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/service/forecast"
)

func (c *Controller) PredictDaily(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	recs, err := c.forecastService.DailyForecast(ctx.Request().Context(), user, intQuery(ctx, "days", 7))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string][]domain.PredictionRecord{"predictions": recs})
}

func (c *Controller) PredictMonthly(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	fc, err := c.forecastService.MonthlyForecast(ctx.Request().Context(), user)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, fc)
}

func (c *Controller) PredictionHistory(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	horizon := domain.HorizonType(ctx.QueryParam("horizon"))
	if horizon == "" {
		horizon = domain.HorizonDaily
	}

	recs, err := c.forecastService.History(ctx.Request().Context(), user.ID, horizon, uint64(intQuery(ctx, "limit", 100)))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string][]*domain.PredictionRecord{"predictions": recs})
}

func (c *Controller) ModelStatus(ctx echo.Context) error {
	trainedAt, testMetrics, ok := c.forecastService.ModelInfo()

	type response struct {
		Loaded    bool             `json:"loaded"`
		TrainedAt *time.Time       `json:"trained_at,omitempty"`
		Metrics   *forecast.Metrics `json:"metrics,omitempty"`
	}

	resp := response{Loaded: ok}
	if ok {
		resp.TrainedAt = &trainedAt
		resp.Metrics = &testMetrics
	}

	return ctx.JSON(http.StatusOK, resp)
}
