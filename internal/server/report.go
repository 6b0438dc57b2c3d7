package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) TenantSummaryReport(c *gin.Context) {
	summaries, err := s.reportsvc.TenantSummaries(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, summaries)
}

func (s *Server) MonthlyConsumptionReport(c *gin.Context) {
	rows, err := s.reportsvc.MonthlyConsumptions(c.Request.Context(), c.Query("tenant"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rows)
}
