package handler

import (
	"net/http"

	"rental/internal/config"
	"rental/internal/middleware"
	"rental/internal/repository"
	"rental/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ProductCreateRequest struct {
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	InitialQuantity   int64           `json:"initial_quantity"`
	CriticalThreshold int64           `json:"critical_threshold"`
}

// Physical count result
type StockAdjustRequest struct {
	AvailableQuantity *int64 `json:"available_quantity"`
	Reason            string `json:"reason"`
}

// /admin/products and /admin/stock
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/products", h.createProduct)
	admin.PUT("/stock/:product_id", h.adjustStock)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req ProductCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	p, err := h.uc.CreateProduct(c.Request().Context(), actor, usecase.CreateProductInput{
		Code:              req.Code,
		Name:              req.Name,
		Category:          req.Category,
		UnitPrice:         req.UnitPrice,
		InitialQuantity:   req.InitialQuantity,
		CriticalThreshold: req.CriticalThreshold,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *AdminProductHandler) adjustStock(c echo.Context) error {
	productID, ok := pathID(c, "product_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	var req StockAdjustRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.AvailableQuantity == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "available_quantity required"})
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	p, err := h.uc.AdjustStock(c.Request().Context(), actor, productID, *req.AvailableQuantity, req.Reason)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}
