package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	banddomain "github.com/luxfolio/dealdesk/internal/commissionband/domain"
)

func (s *Server) CreateCommissionBand(c *gin.Context) {
	var req banddomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	band, err := s.bandSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": band})
}

func (s *Server) ListCommissionBands(c *gin.Context) {
	bands, err := s.bandSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bands})
}

func (s *Server) UpdateCommissionBand(c *gin.Context) {
	var req banddomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	band, err := s.bandSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": band})
}
