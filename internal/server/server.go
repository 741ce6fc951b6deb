package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bellyfied/internal/apperr"
	"bellyfied/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// echoの組み立て
func New(log logrus.FieldLogger, v echo.Validator, authn middleware.Authenticator, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = v
	e.HTTPErrorHandler = ErrorHandler(log)

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.WithError(err).WithField("stack", string(stack)).Error("panic recovered")
			return err
		},
	}))
	e.Use(middleware.RequestLogger(log))

	RegisterRoutes(e, authn, h)
	return e
}

// handlerが返したエラーの最後の受け口。想定外のエラーは500にしてログに出す
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var body apperr.Body
		status := http.StatusInternalServerError

		var ee *echo.HTTPError
		if he, ok := apperr.AsHTTPError(err); ok {
			status, body = he.Status, he.Body()
		} else if errors.As(err, &ee) {
			status = ee.Code
			body = apperr.Body{Error: codeForStatus(status), Message: http.StatusText(status)}
		} else {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Path(),
			}).Error("unhandled error")
			body = apperr.Body{Error: apperr.CodeInternal, Message: "internal error"}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.WithError(err).Error("write error response")
		}
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return apperr.CodeNotFound
	case http.StatusUnauthorized:
		return apperr.CodeUnauthorized
	case http.StatusForbidden:
		return apperr.CodeForbidden
	case http.StatusTooManyRequests:
		return apperr.CodeTooManyRequests
	case http.StatusInternalServerError:
		return apperr.CodeInternal
	default:
		return apperr.CodeBadRequest
	}
}

// ctxがキャンセルされたら新しいリクエストを止め、処理中のものを待って終わる
func Start(ctx context.Context, e *echo.Echo, addr string, log logrus.FieldLogger) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("server started")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
