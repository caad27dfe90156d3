package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	checkoutUC *usecase.CheckoutUsecase
	statusUC   *usecase.OrderStatusUsecase
}

func NewOrderHandler(checkoutUC *usecase.CheckoutUsecase, statusUC *usecase.OrderStatusUsecase) *OrderHandler {
	return &OrderHandler{checkoutUC: checkoutUC, statusUC: statusUC}
}

type ShippingInfoRequest struct {
	FullName     string `json:"full_name"`
	AddressLine1 string `json:"address_line1"`
	City         string `json:"city"`
	PostalCode   string `json:"postal_code"`
}

type CheckoutRequest struct {
	OwnerID        int64                        `json:"owner_id"`
	OwnerEmail     string                       `json:"owner_email"`
	OwnerName      string                       `json:"owner_name"`
	Shipping       ShippingInfoRequest          `json:"shipping"`
	DeliveryMethod string                       `json:"delivery_method"`
	PaymentMethod  string                       `json:"payment_method"`
	Notes          string                       `json:"notes"`
	PaymentResult  *usecase.PaymentResultInput  `json:"payment_result"`
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

// checkoutはゲスト注文も受けるので認証なし。
// /orders/admin/* は旧クライアント用の無認証ルート。
func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/orders/checkout", h.checkout)
	e.GET("/orders/admin/all", h.legacyList)
	e.PUT("/orders/admin/:id/status", h.legacyUpdateStatus)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.checkoutUC.PlaceOrder(c.Request().Context(), req.OwnerID, usecase.CheckoutInput{
		OwnerEmail:     req.OwnerEmail,
		OwnerName:      req.OwnerName,
		FullName:       req.Shipping.FullName,
		AddressLine1:   req.Shipping.AddressLine1,
		City:           req.Shipping.City,
		PostalCode:     req.Shipping.PostalCode,
		DeliveryMethod: req.DeliveryMethod,
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
		PaymentResult:  req.PaymentResult,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) legacyList(c echo.Context) error {
	out, err := h.statusUC.ListOrders(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) legacyUpdateStatus(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	//無認証ルートは操作者ID 0（system）で監査ログに残す
	out, err := h.statusUC.SetStatus(
		c.Request().Context(),
		0,
		orderID,
		usecase.UpdateOrderStatusInput{Status: req.Status},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
