package controller

import (
	"github.com/ebalakin/enertrack/internal/service/auth"
	"github.com/ebalakin/enertrack/internal/service/charts"
	"github.com/ebalakin/enertrack/internal/service/energy"
	"github.com/ebalakin/enertrack/internal/service/forecast"
	"github.com/ebalakin/enertrack/internal/service/importer"
)

type Controller struct {
	authService     *auth.Service
	energyService   *energy.Service
	forecastService *forecast.Service
	chartsService   *charts.Service
	importerService *importer.Service
}

func NewController(
	authService *auth.Service,
	energyService *energy.Service,
	forecastService *forecast.Service,
	chartsService *charts.Service,
	importerService *importer.Service,
) *Controller {
	return &Controller{
		authService:     authService,
		energyService:   energyService,
		forecastService: forecastService,
		chartsService:   chartsService,
		importerService: importerService,
	}
}
