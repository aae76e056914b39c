package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	saledomain "github.com/luxfolio/dealdesk/internal/sale/domain"
)

func (s *Server) CreateSale(c *gin.Context) {
	var req saledomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sale, err := s.saleSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sale})
}

func (s *Server) ListSales(c *gin.Context) {
	var query struct {
		Status    string `form:"status"`
		ErrorOnly bool   `form:"error_only"`
		Limit     int    `form:"limit"`
		Offset    int    `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sales, err := s.saleSvc.List(c.Request.Context(), saledomain.ListRequest{
		Status:    saledomain.DealStatus(query.Status),
		ErrorOnly: query.ErrorOnly,
		Limit:     query.Limit,
		Offset:    query.Offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sales})
}

func (s *Server) GetSale(c *gin.Context) {
	sale, err := s.saleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sale})
}

func (s *Server) UpdateSale(c *gin.Context) {
	var req saledomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	sale, err := s.saleSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sale})
}

func (s *Server) DeleteSale(c *gin.Context) {
	if err := s.saleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

type transitionRequest struct {
	Next        string `json:"next"`
	PaymentDate string `json:"payment_date,omitempty"`
}

func (s *Server) TransitionSale(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	opts := saledomain.TransitionOptions{}
	if req.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			AbortWithError(c, newValidationError("payment_date", "invalid_payment_date", "invalid payment_date"))
			return
		}
		opts.PaymentDate = &parsed
	}

	sale, err := s.saleSvc.Transition(c.Request.Context(), c.Param("id"), saledomain.DealStatus(req.Next), opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sale})
}

type fixVATRequest struct {
	BrandingTheme string `json:"branding_theme"`
}

func (s *Server) FixSaleVAT(c *gin.Context) {
	var req fixVATRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sale, err := s.saleSvc.FixVAT(c.Request.Context(), c.Param("id"), req.BrandingTheme)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sale})
}

type allocateRequest struct {
	OverridePercent float64 `json:"override_percent"`
}

func (s *Server) AllocateSaleCommission(c *gin.Context) {
	var req allocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sale, err := s.saleSvc.Allocate(c.Request.Context(), c.Param("id"), req.OverridePercent)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sale})
}

type linkInvoiceRequest struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
}

func (s *Server) LinkSaleInvoice(c *gin.Context) {
	var req linkInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sale, err := s.saleSvc.LinkExternalInvoice(c.Request.Context(), c.Param("id"), req.InvoiceID, req.InvoiceNumber)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sale})
}
