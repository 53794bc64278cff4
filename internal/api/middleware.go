package api

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ebalakin/enertrack/internal/pkg/constants"
	"github.com/ebalakin/enertrack/internal/pkg/logger"
	"github.com/ebalakin/enertrack/internal/pkg/metrics"
	"github.com/ebalakin/enertrack/internal/pkg/utils"
)

// AuthMiddleware resolves the auth cookie into a user and stores it on the
// request context.
func (svc *APIService) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		cookie, err := ctx.Cookie(constants.CookieKeyAuthToken)
		if err != nil {
			return constants.ErrMissingAuthCookie
		}

		token, err := utils.ParseAuthToken(cookie.Value)
		if err != nil {
			return err
		}

		user, err := svc.authService.UserByID(ctx.Request().Context(), token.UserID)
		if err != nil {
			return err
		}

		ctx.Set(constants.CtxKeyUserID, user)
		return next(ctx)
	}
}

// RequestIDMiddleware tags each request with an id that the logger carries
// through the request context.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id := ctx.Request().Header.Get(echo.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Response().Header().Set(echo.HeaderXRequestID, id)

		req := ctx.Request()
		ctx.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
		return next(ctx)
	}
}

// MetricsMiddleware records request counts and latency per route.
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		err := next(ctx)

		path := ctx.Path()
		if path == "" {
			path = ctx.Request().URL.Path
		}
		status := ctx.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}

		metrics.HTTPRequestsTotal.WithLabelValues(ctx.Request().Method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(ctx.Request().Method, path).Observe(time.Since(start).Seconds())
		return err
	}
}
