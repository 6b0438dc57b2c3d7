package server

import (
	tenantdomain "github.com/aquabill-labs/aquabill/internal/tenant/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateTenant(c *gin.Context) {
	var req tenantdomain.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}

	tenant, err := s.tenantsvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tenant)
}

func (s *Server) ListTenants(c *gin.Context) {
	tenants, err := s.tenantsvc.ListActive(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tenants)
}

func (s *Server) GetTenant(c *gin.Context) {
	tenant, err := s.tenantsvc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tenant)
}

func (s *Server) UpdateTenant(c *gin.Context) {
	var req tenantdomain.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}

	tenant, err := s.tenantsvc.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tenant)
}

func (s *Server) DeactivateTenant(c *gin.Context) {
	tenant, err := s.tenantsvc.Deactivate(c.Request.Context(), c.Param("code"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tenant)
}
