package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mykitchen/kitchen/internal/app/service"
)

type AnalyticsController struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsController(analyticsService service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
	}
}

// GetCharts returns the catalog chart series
// GET /api/v1/charts
func (ctrl *AnalyticsController) GetCharts(c *gin.Context) {
	charts, err := ctrl.analyticsService.Charts(c.Request.Context())
	if err != nil {
		respondError(c, err, "compute charts", nil)
		return
	}

	c.JSON(http.StatusOK, charts)
}
