package handler

import (
	"errors"
	"net/http"
	"strconv"

	"campus-merch-store/internal/service"

	"github.com/labstack/echo/v4"
)

var unprocessable = []error{
	service.ErrPaymentMethodRequired,
	service.ErrPaymentMethodUnavailable,
	service.ErrProofRequired,
	service.ErrInvalidProof,
	service.ErrVariantMismatch,
	service.ErrSizeMismatch,
	service.ErrProgramMismatch,
}

// httpError maps service errors to responses. Unknown errors pass through
// and end up as 500.
func httpError(err error) error {
	code := 0
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		code = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidSort):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrProofTooLarge):
		code = http.StatusRequestEntityTooLarge
	default:
		for _, target := range unprocessable {
			if errors.Is(err, target) {
				code = http.StatusUnprocessableEntity
				break
			}
		}
	}
	if code == 0 {
		return err
	}
	return echo.NewHTTPError(code, err.Error()).SetInternal(err)
}

func idParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
