package server

import (
	"net/http"

	"rental/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	//public
	handler.NewAuthHandler(d.Auth).RegisterRoutes(e)
	handler.NewProductHandler(d.Products).RegisterRoutes(e)

	//JWT + token_version
	handler.NewStockHandler(d.Products).RegisterRoutes(e, d.Config, d.Users)
	handler.NewReservationHandler(d.Reservations).RegisterRoutes(e, d.Config, d.Users)
	handler.NewInstanceHandler(d.Instances).RegisterRoutes(e, d.Config, d.Users)

	//ADMIN only
	handler.NewAdminProductHandler(d.Products).RegisterRoutes(e, d.Config, d.Users)
	handler.NewAdminUserHandler(d.Auth).RegisterRoutes(e, d.Config, d.Users)
	handler.NewAdminAuditLogHandler(d.AuditLogs).RegisterRoutes(e, d.Config, d.Users)
}
