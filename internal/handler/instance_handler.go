package handler

import (
	"context"
	"net/http"
	"strconv"

	"rental/internal/config"
	"rental/internal/domain/model"
	"rental/internal/middleware"
	"rental/internal/repository"
	"rental/internal/usecase"

	"github.com/labstack/echo/v4"
)

type InstanceCreateRequest struct {
	ProductID    int64   `json:"product_id"`
	SerialNumber string  `json:"serial_number"`
	Condition    string  `json:"condition"`
	AcquiredAt   *string `json:"acquired_at"`
}

type InstanceStatusRequest struct {
	Reason string `json:"reason"`
}

// /instances, serialized units
type InstanceHandler struct {
	uc *usecase.InstanceUsecase
}

func NewInstanceHandler(uc *usecase.InstanceUsecase) *InstanceHandler {
	return &InstanceHandler{uc: uc}
}

func (h *InstanceHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/instances")

	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.GET("", h.list)
	g.POST("", h.register)
	g.POST("/:id/maintenance", h.statusChange(h.uc.SendToMaintenance))
	g.POST("/:id/maintenance/complete", h.statusChange(h.uc.CompleteMaintenance))
	g.POST("/:id/retire", h.statusChange(h.uc.Retire))
}

func (h *InstanceHandler) list(c echo.Context) error {
	productID, err := strconv.ParseInt(c.QueryParam("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	out, err := h.uc.ListByProduct(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		out = []model.ProductInstance{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InstanceHandler) register(c echo.Context) error {
	var req InstanceCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	in := usecase.RegisterInstanceInput{
		ProductID:    req.ProductID,
		SerialNumber: req.SerialNumber,
		Condition:    req.Condition,
	}
	if req.AcquiredAt != nil {
		d, err := parseDate(*req.AcquiredAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid acquired_at"})
		}
		in.AcquiredAt = &d
	}

	out, err := h.uc.Register(c.Request().Context(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

type instanceTransition func(ctx context.Context, actor model.Actor, instanceID int64, reason string) (model.ProductInstance, error)

func (h *InstanceHandler) statusChange(fn instanceTransition) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := pathID(c, "id")
		if !ok {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		}

		//body is optional
		var req InstanceStatusRequest
		if c.Request().ContentLength != 0 {
			if err := c.Bind(&req); err != nil {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
			}
		}

		actor, ok := actorFromContext(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		}

		out, err := fn(c.Request().Context(), actor, id, req.Reason)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
}
