package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse is the envelope written for every JSON response.
type APIResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeEnvelope(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, APIResponse{
		Status:  status,
		Message: http.StatusText(status),
		Data:    data,
	})
}

// SuccessResponse writes a 200 envelope around data.
func SuccessResponse(c echo.Context, data interface{}) error {
	return writeEnvelope(c, http.StatusOK, data)
}

// BadRequestResponse writes a 400 envelope, typically around validation
// error details.
func BadRequestResponse(c echo.Context, data interface{}) error {
	return writeEnvelope(c, http.StatusBadRequest, data)
}

// AppErrorResponse writes err's envelope when it is an AppError and a
// generic 500 otherwise.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return writeEnvelope(c, appErr.Status, []*AppError{appErr})
	}
	return writeEnvelope(c, http.StatusInternalServerError, "something went wrong")
}
