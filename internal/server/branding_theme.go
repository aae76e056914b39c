package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListBrandingThemes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.resolver.Mappings()})
}

func (s *Server) ResolveBrandingTheme(c *gin.Context) {
	theme := strings.TrimSpace(c.Query("theme"))
	if theme == "" {
		AbortWithError(c, newValidationError("theme", "missing_theme", "theme is required"))
		return
	}

	resolution, ok := s.resolver.Resolve(theme)
	if !ok {
		// Unresolved is an answer, not an error; the caller decides
		// whether to fall back.
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"resolved": false}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"resolved": true, "resolution": resolution}})
}

type validateVATRequest struct {
	BrandingTheme    string  `json:"branding_theme"`
	SaleAmountExVAT  float64 `json:"sale_amount_ex_vat"`
	SaleAmountIncVAT float64 `json:"sale_amount_inc_vat"`
}

func (s *Server) ValidateBrandingThemeVAT(c *gin.Context) {
	var req validateVATRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result := s.resolver.Validate(req.BrandingTheme, req.SaleAmountExVAT, req.SaleAmountIncVAT)
	c.JSON(http.StatusOK, gin.H{"data": result})
}
