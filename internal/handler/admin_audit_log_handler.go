package handler

import (
	"net/http"
	"strconv"
	"time"

	"rental/internal/config"
	"rental/internal/middleware"
	"rental/internal/repository"
	"rental/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminAuditLogHandler struct {
	uc *usecase.AuditLogUsecase
}

func NewAdminAuditLogHandler(uc *usecase.AuditLogUsecase) *AdminAuditLogHandler {
	return &AdminAuditLogHandler{uc: uc}
}

func (h *AdminAuditLogHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group(
		"/admin",
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
		middleware.AdminRoleGuard(),
	)

	admin.GET("/audit-logs", h.list)
}

// list: ?actor_user_id=&action=&resource_type=&resource_id=&since=&until=&limit=&offset=
// since and until are calendar days, both inclusive.
func (h *AdminAuditLogHandler) list(c echo.Context) error {
	in := usecase.ListAuditLogsInput{
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
	}

	for _, f := range []struct {
		name string
		dst  **int64
	}{
		{"actor_user_id", &in.ActorUserID},
		{"resource_id", &in.ResourceID},
	} {
		v := c.QueryParam(f.name)
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + f.name})
		}
		*f.dst = &id
	}

	if v := c.QueryParam("since"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid since"})
		}
		in.Since = &d
	}
	if v := c.QueryParam("until"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid until"})
		}
		end := d.Add(24 * time.Hour)
		in.Until = &end
	}

	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		in.Limit = l
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		in.Offset = o
	}

	out, err := h.uc.ListAuditLogs(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
