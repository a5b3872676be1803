package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Run Sweep
// @Description  Run one overdue-and-reminder sweep pass immediately
// @Tags         sweep
// @Accept       json
// @Produce      json
// @Success      200  {object}  sweep.Summary
// @Router       /sweep/run [post]
func (s *Server) RunSweep(c *gin.Context) {
	if s.sweepWorker == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	summary, err := s.sweepWorker.RunOnce(c.Request.Context(), s.clock.Today())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
