package handler

import (
	"net/http"
	"strconv"

	"rental/internal/config"
	"rental/internal/middleware"
	"rental/internal/repository"
	"rental/internal/usecase"
	"rental/internal/view"

	"github.com/labstack/echo/v4"
)

// /stock ledger queries
type StockHandler struct {
	uc *usecase.ProductUsecase
}

func NewStockHandler(uc *usecase.ProductUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

func (h *StockHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/stock")

	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.GET("/movements", h.movements)
	g.GET("/critical", h.critical)
}

func (h *StockHandler) movements(c echo.Context) error {
	in := usecase.ListMovementsInput{Type: c.QueryParam("type")}

	for _, f := range []struct {
		name string
		dst  **int64
	}{
		{"product_id", &in.ProductID},
		{"reservation_id", &in.ReservationID},
		{"instance_id", &in.InstanceID},
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

	out, err := h.uc.ListMovements(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		out = []*view.MovementView{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StockHandler) critical(c echo.Context) error {
	out, err := h.uc.CriticalProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
