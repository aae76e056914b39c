package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	partydomain "github.com/luxfolio/dealdesk/internal/party/domain"
)

func (s *Server) CreateParty(c *gin.Context) {
	var req partydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	party, err := s.partySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": party})
}

func (s *Server) ListParties(c *gin.Context) {
	var query struct {
		Type string `form:"type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	parties, err := s.partySvc.List(c.Request.Context(), partydomain.PartyType(query.Type))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": parties})
}

func (s *Server) GetParty(c *gin.Context) {
	party, err := s.partySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": party})
}

func (s *Server) UpdateParty(c *gin.Context) {
	var req partydomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	party, err := s.partySvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": party})
}
