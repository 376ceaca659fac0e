package handler

import (
	"net/http"

	"salonpos/internal/apierror"
	"salonpos/internal/dto"
	"salonpos/internal/middleware"
	"salonpos/internal/service"

	"github.com/gin-gonic/gin"
)

// StockHandler exposes the manual ledger paths and their read models.
type StockHandler struct{ svc service.InventoryService }

func NewStockHandler(svc service.InventoryService) *StockHandler { return &StockHandler{svc: svc} }

// Withdraw godoc
// @Summary      Manual stock withdrawal
// @Description  Removes stock for waste, internal use or expiry. A quantity above current stock is rejected with 409.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.WithdrawalRequest true "Withdrawal"
// @Success      201  {object} dto.StockOperationResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/stock/withdrawals [post]
func (h *StockHandler) Withdraw(c *gin.Context) {
	var req dto.WithdrawalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Withdraw(c.Request.Context(), claims.TenantID(), claims.ActorID(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegisterEntry godoc
// @Summary      Register arriving stock
// @Description  Adds stock and optionally rolls the expiry date to the new batch's.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.EntryRequest true "Entry"
// @Success      201  {object} dto.StockOperationResponse
// @Router       /v1/stock/entries [post]
func (h *StockHandler) RegisterEntry(c *gin.Context) {
	var req dto.EntryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.RegisterEntry(c.Request.Context(), claims.TenantID(), claims.ActorID(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Adjust godoc
// @Summary      Stock recount
// @Description  Sets the stock to an absolute counted value; the delta lands on the ledger as an adjustment.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AdjustmentRequest true "Recount"
// @Success      201  {object} dto.StockOperationResponse
// @Router       /v1/stock/adjustments [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	var req dto.AdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Adjust(c.Request.Context(), claims.TenantID(), claims.ActorID(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Movements godoc
// @Summary      Movement history
// @Description  Paginated stock ledger, newest first, filterable by item, order and type.
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        item_id  query string false "Item UUID"
// @Param        order_id query string false "Order UUID"
// @Param        type     query string false "entry | withdrawal | adjustment"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Rows per page (default 100)"
// @Success      200      {object} dto.MovementListResponse
// @Router       /v1/stock/movements [get]
func (h *StockHandler) Movements(c *gin.Context) {
	var q dto.MovementFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.ListMovements(c.Request.Context(), claims.TenantID(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ShoppingList godoc
// @Summary      Replenishment shopping list
// @Description  Items below minimum or expiring soon, with suggested reorder quantities.
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ShoppingListEntry
// @Router       /v1/stock/shopping-list [get]
func (h *StockHandler) ShoppingList(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.ShoppingList(c.Request.Context(), claims.TenantID())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build shopping list"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
