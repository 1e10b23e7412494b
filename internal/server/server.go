package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"rental/internal/config"
	"rental/internal/repository"
	"rental/internal/usecase"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Everything the HTTP layer needs, built once in main.
type Deps struct {
	Config       config.Config
	Log          *zap.Logger
	Users        repository.UserRepository
	Auth         *usecase.AuthUsecase
	Products     *usecase.ProductUsecase
	Reservations *usecase.ReservationUsecase
	Instances    *usecase.InstanceUsecase
	AuditLogs    *usecase.AuditLogUsecase
}

func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(requestLogger(d.Log))

	RegisterRoutes(e, d)
	return e
}

func requestLogger(l *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				l.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			l.Info("request", fields...)
			return nil
		},
	})
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func Start(ctx context.Context, e *echo.Echo, addr string, l *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("http server listening", zap.String("addr", addr))
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	l.Info("http server shutting down")
	return e.Shutdown(shutdownCtx)
}
