package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/ebalakin/enertrack/internal/pkg/constants"
)

// Binder decodes JSON bodies with sonic and runs struct validation on the
// result. Non-JSON payloads fall back to echo's default binder.
type Binder struct {
	fallback echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()
	if req.ContentLength != 0 && strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		if err := sonic.Unmarshal(body, i); err != nil {
			return fmt.Errorf("%s: %w", err.Error(), constants.ErrInvalidRequest)
		}
	} else if req.Method != http.MethodGet && req.Method != http.MethodDelete {
		if err := b.fallback.Bind(i, c); err != nil {
			return fmt.Errorf("%s: %w", err.Error(), constants.ErrInvalidRequest)
		}
	}

	return c.Validate(i)
}
