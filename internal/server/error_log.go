package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	errlogdomain "github.com/luxfolio/dealdesk/internal/errlog/domain"
)

func (s *Server) ListErrorEntries(c *gin.Context) {
	var query struct {
		Severity string `form:"severity"`
		Source   string `form:"source"`
		SaleID   string `form:"sale_id"`
		Limit    int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := errlogdomain.ListRequest{
		Severity: errlogdomain.Severity(query.Severity),
		Source:   query.Source,
		Limit:    query.Limit,
	}
	if query.SaleID != "" {
		saleID, err := snowflake.ParseString(query.SaleID)
		if err != nil {
			AbortWithError(c, newValidationError("sale_id", "invalid_sale_id", "invalid sale_id"))
			return
		}
		req.SaleID = &saleID
	}

	entries, err := s.errlogSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
