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

type TablesHandler struct{ svc service.CatalogService }

func NewTablesHandler(svc service.CatalogService) *TablesHandler { return &TablesHandler{svc: svc} }

// Create godoc
// @Summary      Create a dining table
// @Tags         tables
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateTableRequest true "Table"
// @Success      201  {object} dto.TableResponse
// @Router       /v1/tables [post]
func (h *TablesHandler) Create(c *gin.Context) {
	var req dto.CreateTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.CreateTable(c.Request.Context(), claims.TenantID(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      Dining room layout
// @Description  All tables with status and, when occupied, the open order reference.
// @Tags         tables
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.TableResponse
// @Router       /v1/tables [get]
func (h *TablesHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.ListTables(c.Request.Context(), claims.TenantID())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list tables"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a table
// @Tags         tables
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Table UUID"
// @Param        body body dto.UpdateTableRequest true "Fields to change"
// @Success      200  {object} dto.TableResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/tables/{id} [put]
func (h *TablesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.UpdateTable(c.Request.Context(), claims.TenantID(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a table
// @Description  Only free tables can be deleted.
// @Tags         tables
// @Security     BearerAuth
// @Param        id path string true "Table UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/tables/{id} [delete]
func (h *TablesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.svc.DeleteTable(c.Request.Context(), claims.TenantID(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reserve godoc
// @Summary      Reserve a free table
// @Tags         tables
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Table UUID"
// @Success      200 {object} dto.TableResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/tables/{id}/reserve [post]
func (h *TablesHandler) Reserve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.ReserveTable(c.Request.Context(), claims.TenantID(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
