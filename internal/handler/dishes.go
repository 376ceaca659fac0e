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

type DishesHandler struct{ svc service.CatalogService }

func NewDishesHandler(svc service.CatalogService) *DishesHandler { return &DishesHandler{svc: svc} }

// Create godoc
// @Summary      Create a dish
// @Tags         dishes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateDishRequest true "Dish"
// @Success      201  {object} dto.DishResponse
// @Router       /v1/dishes [post]
func (h *DishesHandler) Create(c *gin.Context) {
	var req dto.CreateDishRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.CreateDish(c.Request.Context(), claims.TenantID(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List active dishes
// @Produce      json
// @Security     BearerAuth
// @Param        category query string false "Category filter"
// @Success      200 {array} dto.DishResponse
// @Router       /v1/dishes [get]
func (h *DishesHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.ListDishes(c.Request.Context(), claims.TenantID(), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list dishes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one dish with its technical sheet
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Dish UUID"
// @Success      200 {object} dto.DishResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/dishes/{id} [get]
func (h *DishesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.GetDish(c.Request.Context(), claims.TenantID(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a dish
// @Tags         dishes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                true "Dish UUID"
// @Param        body body dto.UpdateDishRequest true "Fields to change"
// @Success      200  {object} dto.DishResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/dishes/{id} [put]
func (h *DishesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateDishRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.UpdateDish(c.Request.Context(), claims.TenantID(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Archive godoc
// @Summary      Archive a dish
// @Tags         dishes
// @Security     BearerAuth
// @Param        id path string true "Dish UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/dishes/{id} [delete]
func (h *DishesHandler) Archive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.svc.ArchiveDish(c.Request.Context(), claims.TenantID(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReplaceSheet godoc
// @Summary      Replace a dish's technical sheet
// @Description  Swaps the full ingredient list atomically. Every referenced item must exist. An empty list makes the dish sellable without stock deduction.
// @Tags         dishes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Dish UUID"
// @Param        body body dto.ReplaceSheetRequest true "Sheet rows"
// @Success      200  {object} dto.DishResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/dishes/{id}/sheet [put]
func (h *DishesHandler) ReplaceSheet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.ReplaceSheetRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.ReplaceSheet(c.Request.Context(), claims.TenantID(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
