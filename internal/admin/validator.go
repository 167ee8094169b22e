package admin

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

// bindForm binds and validates a form into target.
func bindForm(c echo.Context, target any) error {
	if err := c.Bind(target); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, BadRequestError.Message).SetInternal(err)
	}
	return c.Validate(target)
}
