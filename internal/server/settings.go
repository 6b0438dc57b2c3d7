package server

import (
	"github.com/gin-gonic/gin"
)

type setSettingRequest struct {
	Value       string  `json:"value" binding:"required"`
	Description *string `json:"description,omitempty"`
}

func (s *Server) ListSettings(c *gin.Context) {
	settings, err := s.settingsvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, settings)
}

func (s *Server) GetSetting(c *gin.Context) {
	value, err := s.settingsvc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"key": c.Param("key"), "value": value.Text})
}

func (s *Server) SetSetting(c *gin.Context) {
	var req setSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}

	setting, err := s.settingsvc.Set(c.Request.Context(), c.Param("key"), req.Value, req.Description)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, setting)
}
