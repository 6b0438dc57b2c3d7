package server

import (
	"time"

	billdomain "github.com/aquabill-labs/aquabill/internal/bill/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) GenerateBill(c *gin.Context) {
	var req billdomain.GenerateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}

	bill, err := s.billsvc.Generate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, bill)
}

func (s *Server) GetBill(c *gin.Context) {
	id, err := parseBillID(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}

	bill, err := s.billsvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, bill)
}

func (s *Server) PayBill(c *gin.Context) {
	id, err := parseBillID(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}

	bill, err := s.billsvc.MarkPaid(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, bill)
}

func (s *Server) CancelBill(c *gin.Context) {
	id, err := parseBillID(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}

	bill, err := s.billsvc.Cancel(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, bill)
}

func (s *Server) ListOutstandingBills(c *gin.Context) {
	bills, err := s.billsvc.ListOutstanding(c.Request.Context(), c.Query("tenant"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, bills)
}

func (s *Server) ListTenantBills(c *gin.Context) {
	bills, err := s.billsvc.ListByTenant(c.Request.Context(), c.Param("code"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, bills)
}

// SweepOverdue is the explicit trigger for the overdue transition; there is
// no internal timer. asOf defaults to now.
func (s *Server) SweepOverdue(c *gin.Context) {
	asOf := time.Now().UTC()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abortBadRequest(c, err)
			return
		}
		asOf = parsed
	}

	changed, err := s.billsvc.MarkOverdue(c.Request.Context(), asOf)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"transitioned": changed})
}

func parseBillID(c *gin.Context) (snowflake.ID, error) {
	return snowflake.ParseString(c.Param("id"))
}
