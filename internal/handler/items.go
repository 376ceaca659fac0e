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

type ItemsHandler struct{ svc service.InventoryService }

func NewItemsHandler(svc service.InventoryService) *ItemsHandler { return &ItemsHandler{svc: svc} }

// Create godoc
// @Summary      Create a stock item
// @Description  Creates an item; a positive initial stock is booked as an entry movement.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateItemRequest true "Item definition"
// @Success      201  {object} dto.ItemResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/items [post]
func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.CreateItem(c.Request.Context(), claims.TenantID(), claims.ActorID(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List stock items
// @Produce      json
// @Security     BearerAuth
// @Param        name   query string false "Name filter (substring)"
// @Param        active query string false "false = archived, all = everything, default active"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Rows per page (default 50)"
// @Success      200    {object} dto.ItemListResponse
// @Router       /v1/items [get]
func (h *ItemsHandler) List(c *gin.Context) {
	var q dto.ItemFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.ListItems(c.Request.Context(), claims.TenantID(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list items"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one stock item
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Item UUID"
// @Success      200 {object} dto.ItemResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{id} [get]
func (h *ItemsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.GetItem(c.Request.Context(), claims.TenantID(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update an item's descriptive fields
// @Description  Stock and expiry never change here; those go through ledger operations.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                true "Item UUID"
// @Param        body body dto.UpdateItemRequest true "Fields to change"
// @Success      200  {object} dto.ItemResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/items/{id} [put]
func (h *ItemsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.UpdateItem(c.Request.Context(), claims.TenantID(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Archive godoc
// @Summary      Archive an item
// @Description  Soft delete: the item stops appearing in active lists but its movement history stays referable.
// @Tags         items
// @Security     BearerAuth
// @Param        id path string true "Item UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{id} [delete]
func (h *ItemsHandler) Archive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.svc.ArchiveItem(c.Request.Context(), claims.TenantID(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Restore godoc
// @Summary      Restore an archived item
// @Tags         items
// @Security     BearerAuth
// @Param        id path string true "Item UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{id}/restore [post]
func (h *ItemsHandler) Restore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.svc.RestoreItem(c.Request.Context(), claims.TenantID(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
