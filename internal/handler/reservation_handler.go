package handler

import (
	"net/http"

	"rental/internal/config"
	"rental/internal/middleware"
	"rental/internal/repository"
	"rental/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ReserveLineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	//optional YYYY-MM-DD, defaults to the reservation period
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

type ReserveRequest struct {
	CustomerName string               `json:"customer_name"`
	StartDate    string               `json:"start_date"`
	EndDate      string               `json:"end_date"`
	Lines        []ReserveLineRequest `json:"lines"`
}

type ShiftRequest struct {
	Days int `json:"days"`
}

// /reservations
type ReservationHandler struct {
	uc *usecase.ReservationUsecase
}

func NewReservationHandler(uc *usecase.ReservationUsecase) *ReservationHandler {
	return &ReservationHandler{uc: uc}
}

func (h *ReservationHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/reservations")

	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.POST("", h.reserve)
	g.GET("/:id", h.get)
	g.POST("/:id/return", h.returnItems)
	g.POST("/:id/cancel", h.cancel)
	g.POST("/:id/shift", h.shift)
}

func (h *ReservationHandler) reserve(c echo.Context) error {
	var req ReserveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_date"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_date"})
	}

	in := usecase.ReserveInput{
		CustomerName: req.CustomerName,
		StartDate:    start,
		EndDate:      end,
		Lines:        make([]usecase.ReserveLineInput, 0, len(req.Lines)),
	}
	for _, l := range req.Lines {
		li := usecase.ReserveLineInput{ProductID: l.ProductID, Quantity: l.Quantity}
		if l.StartDate != nil {
			d, err := parseDate(*l.StartDate)
			if err != nil {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid line start_date"})
			}
			li.StartDate = &d
		}
		if l.EndDate != nil {
			d, err := parseDate(*l.EndDate)
			if err != nil {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid line end_date"})
			}
			li.EndDate = &d
		}
		in.Lines = append(in.Lines, li)
	}

	out, err := h.uc.Reserve(c.Request().Context(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ReservationHandler) get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReservationHandler) returnItems(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Return(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReservationHandler) cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Cancel(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReservationHandler) shift(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ShiftRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ShiftDates(c.Request().Context(), actor, id, req.Days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
