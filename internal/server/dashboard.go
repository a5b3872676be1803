package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Dashboard Overview
// @Description  Per-tenant totals by status plus the monthly revenue series
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Success      200  {object}  dashboarddomain.OverviewResponse
// @Router       /dashboard [get]
func (s *Server) GetDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if s.dashboardSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	resp, err := s.dashboardSvc.GetOverview(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
