package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"github.com/ebalakin/enertrack/internal/api/controller"
	"github.com/ebalakin/enertrack/internal/pkg/constants"
	"github.com/ebalakin/enertrack/internal/pkg/logger"
	"github.com/ebalakin/enertrack/internal/pkg/store"
	"github.com/ebalakin/enertrack/internal/service/auth"
	"github.com/ebalakin/enertrack/internal/service/charts"
	"github.com/ebalakin/enertrack/internal/service/energy"
	"github.com/ebalakin/enertrack/internal/service/forecast"
	"github.com/ebalakin/enertrack/internal/service/importer"
)

type APIService struct {
	router *echo.Echo

	authService     *auth.Service
	energyService   *energy.Service
	forecastService *forecast.Service
	chartsService   *charts.Service
	importerService *importer.Service
}

func (svc *APIService) Serve(addr string) {
	logger.Fatal(context.Background(), svc.router.Start(addr))
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(store store.Store, model *forecast.Model) (*APIService, error) {
	svc := &APIService{router: echo.New()}
	svc.router.HideBanner = true

	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.Recover())
	svc.router.Use(RequestIDMiddleware)
	svc.router.Use(MetricsMiddleware)
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     viper.GetStringSlice(constants.ViperCORSOrigins),
		AllowMethods:     []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	svc.authService = auth.NewService(store)
	svc.energyService = energy.NewService(store)
	svc.forecastService = forecast.NewService(store, model)
	svc.chartsService = charts.NewService(store)
	svc.importerService = importer.NewService(store)

	svc.router.GET("/healthz", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	svc.router.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(
		svc.authService,
		svc.energyService,
		svc.forecastService,
		svc.chartsService,
		svc.importerService,
	)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", cntrl.Register)
	authGroup.POST("/login", cntrl.Login)
	authGroup.POST("/logout", cntrl.Logout)
	authGroup.GET("/status", cntrl.AuthStatus, svc.AuthMiddleware)

	data := api.Group("/data", svc.AuthMiddleware)
	data.POST("/add", cntrl.AddRecord)
	data.GET("/records", cntrl.ListRecords)
	data.GET("/daily", cntrl.DailyConsumption)
	data.GET("/appliances", cntrl.ApplianceConsumption)
	data.GET("/monthly", cntrl.MonthlyConsumption)
	data.GET("/hourly", cntrl.HourlyPattern)
	data.POST("/import", cntrl.ImportUsage)

	dashboard := api.Group("/dashboard", svc.AuthMiddleware)
	dashboard.GET("/summary", cntrl.DashboardSummary)
	dashboard.GET("/insights", cntrl.Insights)

	predict := api.Group("/predict", svc.AuthMiddleware)
	predict.GET("/daily", cntrl.PredictDaily)
	predict.GET("/monthly", cntrl.PredictMonthly)
	predict.GET("/history", cntrl.PredictionHistory)
	predict.GET("/model", cntrl.ModelStatus)

	visualize := api.Group("/visualize", svc.AuthMiddleware)
	visualize.GET("/daily", cntrl.ChartDaily)
	visualize.GET("/cost", cntrl.ChartCost)
	visualize.GET("/appliance-bar", cntrl.ChartApplianceBar)
	visualize.GET("/appliance-pie", cntrl.ChartAppliancePie)
	visualize.GET("/monthly", cntrl.ChartMonthly)
	visualize.GET("/weekly-comparison", cntrl.ChartWeeklyComparison)
	visualize.GET("/hourly-pattern", cntrl.ChartHourlyPattern)
	visualize.GET("/dashboard", cntrl.ChartDashboard)

	return svc, nil
}
