package handler

import (
	"net/http"

	"salonpos/internal/apierror"
	"salonpos/internal/middleware"
	"salonpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler { return &ReportsHandler{svc: svc} }

// Revenue godoc
// @Summary      Daily revenue by payment method
// @Description  Aggregates orders closed as sales on the date (default today). Cancelled orders never contribute.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "YYYY-MM-DD (default: today)"
// @Success      200  {object} dto.RevenueReportResponse
// @Router       /v1/reports/revenue [get]
func (h *ReportsHandler) Revenue(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Revenue(c.Request.Context(), claims.TenantID(), c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
