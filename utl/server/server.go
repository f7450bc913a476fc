package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/swagftw/pychain/utl/server/fault"
)

// StartHTTPServer starts the HTTP server.
func StartHTTPServer(e *echo.Echo, addr string) error {
	err := e.Start(addr)
	if err == http.ErrServerClosed {
		return nil
	}

	return errors.Wrap(err, "failed to start HTTP server")
}

// InitEcho initializes the echo instance.
func InitEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.HTTPErrorHandler = fault.ErrorHandler

	return e
}

// SendRequest sends a JSON request to the given URL and decodes the response body into out.
// Error responses are returned as *fault.HTTPError.
func SendRequest(method string, url string, payload interface{}, out interface{}) error {
	client := http.Client{Timeout: time.Minute}

	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "failed to marshal payload")
		}

		body = bytes.NewBuffer(data)
	}

	request, err := http.NewRequest(method, url, body)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	request.Header.Set("Content-Type", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return errors.Wrap(err, "failed to send request")
	}

	defer func(Body io.ReadCloser) {
		err = Body.Close()
		if err != nil {
			log.Println(errors.Wrap(err, "failed to close response body"))
		}
	}(response.Body)

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if response.StatusCode >= http.StatusBadRequest {
		httpErr := new(fault.HTTPError)
		if err = json.Unmarshal(data, httpErr); err != nil || httpErr.Message == "" {
			return fault.New(fault.CodeUnknown, http.StatusText(response.StatusCode), response.StatusCode)
		}

		return httpErr
	}

	if out == nil {
		return nil
	}

	return errors.Wrap(json.Unmarshal(data, out), "failed to unmarshal response body")
}

// ToGoContext returns the request context of c.
func ToGoContext(c echo.Context) context.Context {
	return c.Request().Context()
}
