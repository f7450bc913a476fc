package fault

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	// CodeEcho marks errors raised by echo itself, such as bind failures and unknown routes.
	CodeEcho = "ECHO_ERROR"
	// CodeUnknown marks errors no handler translated.
	CodeUnknown = "UNKNOWN_ERROR"
)

// HTTPError is the JSON body of every failed chain API response.
type HTTPError struct {
	ErrorCode  string `json:"errorCode"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`

	cause error
}

func (he *HTTPError) Error() string {
	return he.Message
}

// Unwrap exposes the chain error a handler translated, nil for errors built with New.
func (he *HTTPError) Unwrap() error {
	return he.cause
}

// New creates an HTTPError that has no underlying cause.
func New(code string, message string, statusCode int) error {
	return &HTTPError{
		ErrorCode:  code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap translates err into an HTTPError with code and statusCode, keeping err as the cause.
func Wrap(code string, statusCode int, err error) error {
	if err == nil {
		return nil
	}

	return &HTTPError{
		ErrorCode:  code,
		Message:    err.Error(),
		StatusCode: statusCode,
		cause:      err,
	}
}

// ErrorHandler is the echo error handler of the chain API.
// Server side failures are logged together with the request that caused them.
func ErrorHandler(err error, ctx echo.Context) {
	if err == nil {
		return
	}

	httpError := toHTTPError(err)

	if httpError.StatusCode >= http.StatusInternalServerError {
		req := ctx.Request()
		log.Printf("%s %s failed with %s: %+v", req.Method, req.URL.Path, httpError.ErrorCode, causeOf(httpError, err))
	}

	if ctx.Response().Committed {
		return
	}

	if ctx.Request().Method == http.MethodHead {
		_ = ctx.NoContent(httpError.StatusCode)

		return
	}

	_ = ctx.JSON(httpError.StatusCode, httpError)
}

func toHTTPError(err error) *HTTPError {
	var httpError *HTTPError
	if errors.As(err, &httpError) {
		return httpError
	}

	var echoError *echo.HTTPError
	if errors.As(err, &echoError) {
		return &HTTPError{
			ErrorCode:  CodeEcho,
			Message:    fmt.Sprint(echoError.Message),
			StatusCode: echoError.Code,
			cause:      err,
		}
	}

	return &HTTPError{
		ErrorCode:  CodeUnknown,
		Message:    err.Error(),
		StatusCode: http.StatusInternalServerError,
		cause:      err,
	}
}

func causeOf(httpError *HTTPError, err error) error {
	if httpError.cause != nil {
		return httpError.cause
	}

	return err
}
