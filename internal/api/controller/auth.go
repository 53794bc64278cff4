package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/pkg/constants"
)

// currentUser returns the account resolved by the auth middleware.
func currentUser(ctx echo.Context) (*domain.User, error) {
	user, ok := ctx.Get(constants.CtxKeyUserID).(*domain.User)
	if !ok {
		return nil, constants.ErrUnauthorized
	}
	return user, nil
}

func setAuthCookie(ctx echo.Context, token string) {
	ctx.SetCookie(&http.Cookie{
		Name:     constants.CookieKeyAuthToken,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(viper.GetDuration(constants.ViperTokenTTL)),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *Controller) Register(ctx echo.Context) error {
	req := new(domain.RegisterRequest)
	if err := ctx.Bind(req); err != nil {
		return err
	}

	user, token, err := c.authService.Register(ctx.Request().Context(), req)
	if err != nil {
		return err
	}

	setAuthCookie(ctx, token)
	return ctx.JSON(http.StatusCreated, user)
}

func (c *Controller) Login(ctx echo.Context) error {
	req := new(domain.LoginRequest)
	if err := ctx.Bind(req); err != nil {
		return err
	}

	user, token, err := c.authService.Login(ctx.Request().Context(), req)
	if err != nil {
		return err
	}

	setAuthCookie(ctx, token)
	return ctx.JSON(http.StatusOK, user)
}

func (c *Controller) Logout(ctx echo.Context) error {
	ctx.SetCookie(&http.Cookie{
		Name:     constants.CookieKeyAuthToken,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	return ctx.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (c *Controller) AuthStatus(ctx echo.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, domain.AuthStatusResponse{
		Authenticated: true,
		User:          user,
	})
}
