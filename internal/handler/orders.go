package handler

import (
	"net/http"

	"salonpos/internal/apierror"
	"salonpos/internal/dto"
	"salonpos/internal/middleware"
	"salonpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// Open godoc
// @Summary      Open an order
// @Description  Opens a tab bound to a table (occupying it atomically) or a counter order labelled by customer name.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.OpenOrderRequest true "Order details"
// @Success      201  {object} dto.OrderResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/orders [post]
func (h *OrdersHandler) Open(c *gin.Context) {
	var req dto.OpenOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Open(c.Request.Context(), claims.TenantID(), claims.ActorID(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List orders
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "open | closed | cancelled | all (default open)"
// @Param        date   query string false "YYYY-MM-DD on opened_at"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Rows per page (default 50)"
// @Success      200    {object} dto.OrderListResponse
// @Router       /v1/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var q dto.OrderFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.List(c.Request.Context(), claims.TenantID(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list orders"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one order with its items
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{id} [get]
func (h *OrdersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Get(c.Request.Context(), claims.TenantID(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddItem godoc
// @Summary      Add an item to an open order
// @Description  Resolves the dish's technical sheet, validates stock and deducts it in the same transaction. Insufficient stock returns 409 with the full shortfall list and writes nothing.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Order UUID"
// @Param        body body dto.AddOrderItemRequest true "Line item"
// @Success      200  {object} dto.OrderResponse
// @Failure      409  {object} apierror.ShortfallError
// @Router       /v1/orders/{id}/items [post]
func (h *OrdersHandler) AddItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.AddOrderItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.AddItem(c.Request.Context(), claims.TenantID(), claims.ActorID(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveItem godoc
// @Summary      Remove an item from an open order
// @Description  Decrements the order total. Stock reversal follows the restock-on-removal policy.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id     path string true "Order UUID"
// @Param        itemId path string true "Order item UUID"
// @Success      200    {object} dto.OrderResponse
// @Failure      404    {object} apierror.APIError
// @Router       /v1/orders/{id}/items/{itemId} [delete]
func (h *OrdersHandler) RemoveItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid item ID"))
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.RemoveItem(c.Request.Context(), claims.TenantID(), claims.ActorID(), id, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Close godoc
// @Summary      Close an order
// @Description  Closes as a sale (payment method required) or, with no items / zero total, as a cancellation with no financial footprint. A bound table is released either way.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string               true "Order UUID"
// @Param        body body dto.CloseOrderRequest true "Payment"
// @Success      200  {object} dto.OrderResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/orders/{id}/close [post]
func (h *OrdersHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.CloseOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Close(c.Request.Context(), claims.TenantID(), claims.ActorID(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// KitchenQueue godoc
// @Summary      Pending kitchen queue
// @Description  Pending items of open orders, oldest first.
// @Tags         kitchen
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.KitchenItemResponse
// @Router       /v1/kitchen/queue [get]
func (h *OrdersHandler) KitchenQueue(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.KitchenQueue(c.Request.Context(), claims.TenantID())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load kitchen queue"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarkItemReady godoc
// @Summary      Mark an order item as ready
// @Tags         kitchen
// @Produce      json
// @Security     BearerAuth
// @Param        id     path string true "Order UUID"
// @Param        itemId path string true "Order item UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{id}/items/{itemId}/ready [post]
func (h *OrdersHandler) MarkItemReady(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid item ID"))
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.svc.MarkItemReady(c.Request.Context(), claims.TenantID(), id, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
