package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luxfolio/dealdesk/internal/config"
	contactdomain "github.com/luxfolio/dealdesk/internal/contact/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	banddomain "github.com/luxfolio/dealdesk/internal/commissionband/domain"
	errlogdomain "github.com/luxfolio/dealdesk/internal/errlog/domain"
	"github.com/luxfolio/dealdesk/internal/observability"
	obsmiddleware "github.com/luxfolio/dealdesk/internal/observability/logger"
	obsmetrics "github.com/luxfolio/dealdesk/internal/observability/metrics"
	partydomain "github.com/luxfolio/dealdesk/internal/party/domain"
	saledomain "github.com/luxfolio/dealdesk/internal/sale/domain"
	vatdomain "github.com/luxfolio/dealdesk/internal/vat/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, m *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, m *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(obsCfg, m)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	saleSvc    saledomain.Service
	bandSvc    banddomain.Service
	partySvc   partydomain.Service
	contactSvc contactdomain.Service
	errlogSvc  errlogdomain.Service
	resolver   vatdomain.Resolver
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	SaleSvc    saledomain.Service
	BandSvc    banddomain.Service
	PartySvc   partydomain.Service
	ContactSvc contactdomain.Service
	ErrlogSvc  errlogdomain.Service
	Resolver   vatdomain.Resolver
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		saleSvc:    p.SaleSvc,
		bandSvc:    p.BandSvc,
		partySvc:   p.PartySvc,
		contactSvc: p.ContactSvc,
		errlogSvc:  p.ErrlogSvc,
		resolver:   p.Resolver,
	}

	svc.registerAPIRoutes()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	sales := api.Group("/sales")
	sales.POST("", s.CreateSale)
	sales.GET("", s.ListSales)
	sales.GET("/:id", s.GetSale)
	sales.PATCH("/:id", s.UpdateSale)
	sales.DELETE("/:id", s.DeleteSale)
	sales.POST("/:id/transition", s.TransitionSale)
	sales.POST("/:id/fix-vat", s.FixSaleVAT)
	sales.POST("/:id/allocate", s.AllocateSaleCommission)
	sales.POST("/:id/link-invoice", s.LinkSaleInvoice)

	contacts := api.Group("/contacts")
	contacts.GET("/buyers", s.SearchBuyers)
	contacts.GET("/suppliers", s.SearchSuppliers)
	contacts.POST("/refresh", s.RefreshContacts)

	bands := api.Group("/commission-bands")
	bands.POST("", s.CreateCommissionBand)
	bands.GET("", s.ListCommissionBands)
	bands.PATCH("/:id", s.UpdateCommissionBand)

	parties := api.Group("/parties")
	parties.POST("", s.CreateParty)
	parties.GET("", s.ListParties)
	parties.GET("/:id", s.GetParty)
	parties.PATCH("/:id", s.UpdateParty)

	themes := api.Group("/branding-themes")
	themes.GET("", s.ListBrandingThemes)
	themes.GET("/resolve", s.ResolveBrandingTheme)
	themes.POST("/validate", s.ValidateBrandingThemeVAT)

	api.GET("/errors", s.ListErrorEntries)
}
