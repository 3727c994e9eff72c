package middleware

import (
	"net/http"

	"github.com/deppfellow/go-signup/internal/database"
	"github.com/deppfellow/go-signup/internal/errs"
	"github.com/deppfellow/go-signup/internal/server"
	"github.com/deppfellow/go-signup/internal/storeerr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups the middleware applied to every route and the
// global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger writes one "API" line per request, at error level for 5xx
// and warn for 4xx. request_id comes from the logger EnhanceContext stored.
// Requests that failed in the store also carry the database error code
// and collection.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// The global error handler has not written the response yet when
			// the handler returned an error, so v.Status may still read 200.
			if v.Error != nil {
				statusCode = resolveError(v.Error).Status
			}

			e := levelFor(GetLogger(c), statusCode)
			if statusCode >= http.StatusInternalServerError {
				e = e.Err(v.Error)
			}
			e = withStoreFields(e, v.Error)

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler writes every error returned along the chain as an
// errs.HTTPError body. The original error is logged, 5xx at error level.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	httpErr := resolveError(err)

	e := levelFor(GetLogger(c), httpErr.Status)
	if httpErr.Status >= http.StatusInternalServerError {
		e = e.Stack()
	}
	withStoreFields(e, err).
		Err(err).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if !c.Response().Committed {
		_ = c.JSON(httpErr.Status, httpErr)
	}
}

// resolveError maps err to the response sent to the client.
//
//   - *errs.HTTPError: as is
//   - echo 404: NOT_FOUND "Route not found"
//   - other *echo.HTTPError (bind failures, 405, 429): its status and text
//   - store and unknown errors: storeerr.HandleError
func resolveError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound {
			return errs.NewNotFoundError("Route not found", false, nil)
		}
		message, ok := echoErr.Message.(string)
		if !ok {
			message = http.StatusText(echoErr.Code)
		}
		return &errs.HTTPError{
			Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
			Message: message,
			Status:  echoErr.Code,
		}
	}

	var mapped *errs.HTTPError
	if errors.As(storeerr.HandleError(err), &mapped) {
		return mapped
	}
	return errs.NewInternalServerError()
}

func levelFor(logger *zerolog.Logger, status int) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return logger.Error()
	case status >= http.StatusBadRequest:
		return logger.Warn()
	default:
		return logger.Info()
	}
}

// withStoreFields adds the database error code, collection and field when
// err came from the data-access layer.
func withStoreFields(e *zerolog.Event, err error) *zerolog.Event {
	var dbErr *database.Error
	if err == nil || !errors.As(err, &dbErr) {
		return e
	}

	e = e.Str("db_code", string(dbErr.Code))
	if dbErr.Collection != "" {
		e = e.Str("collection", dbErr.Collection)
	}
	if dbErr.Field != "" {
		e = e.Str("db_field", dbErr.Field)
	}
	return e
}
