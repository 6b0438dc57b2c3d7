package server

import (
	"fmt"
	"time"

	readingdomain "github.com/aquabill-labs/aquabill/internal/reading/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) AddReading(c *gin.Context) {
	var req readingdomain.AddReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}

	reading, err := s.readingsvc.Add(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, reading)
}

func (s *Server) ListReadings(c *gin.Context) {
	code := c.Param("code")

	if from, to, ok, err := rangeParams(c); err != nil {
		abortBadRequest(c, err)
		return
	} else if ok {
		readings, err := s.readingsvc.InRange(c.Request.Context(), code, from, to)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		respondData(c, readings)
		return
	}

	readings, err := s.readingsvc.List(c.Request.Context(), code)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, readings)
}

// rangeParams parses optional from/to query bounds; both must be present to
// select a range query.
func rangeParams(c *gin.Context) (time.Time, time.Time, bool, error) {
	fromRaw := c.Query("from")
	toRaw := c.Query("to")
	if fromRaw == "" && toRaw == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	if fromRaw == "" || toRaw == "" {
		return time.Time{}, time.Time{}, false, fmt.Errorf("from and to must be given together")
	}

	from, err := time.Parse(time.RFC3339, fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("from must be RFC3339: %w", err)
	}
	to, err := time.Parse(time.RFC3339, toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("to must be RFC3339: %w", err)
	}
	return from, to, true, nil
}

func (s *Server) LatestReading(c *gin.Context) {
	reading, err := s.readingsvc.Latest(c.Request.Context(), c.Param("code"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, reading)
}
