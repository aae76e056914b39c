package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	contactdomain "github.com/luxfolio/dealdesk/internal/contact/domain"
)

type contactSearchQuery struct {
	Query string `form:"q"`
	Limit int    `form:"limit"`
}

func (s *Server) SearchBuyers(c *gin.Context) {
	s.searchContacts(c, s.contactSvc.SearchBuyers)
}

func (s *Server) SearchSuppliers(c *gin.Context) {
	s.searchContacts(c, s.contactSvc.SearchSuppliers)
}

func (s *Server) searchContacts(c *gin.Context, search func(ctx context.Context, query string, limit int) ([]contactdomain.ScoredResult, error)) {
	var query contactSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	results, err := search(c.Request.Context(), strings.TrimSpace(query.Query), query.Limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if results == nil {
		results = []contactdomain.ScoredResult{}
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}

func (s *Server) RefreshContacts(c *gin.Context) {
	if err := s.contactSvc.Refresh(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"refreshed": true}})
}
