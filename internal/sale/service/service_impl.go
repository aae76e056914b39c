package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/luxfolio/dealdesk/internal/accounting"
	"github.com/luxfolio/dealdesk/internal/clock"
	"github.com/luxfolio/dealdesk/internal/commission"
	banddomain "github.com/luxfolio/dealdesk/internal/commissionband/domain"
	"github.com/luxfolio/dealdesk/internal/economics"
	errlogdomain "github.com/luxfolio/dealdesk/internal/errlog/domain"
	"github.com/luxfolio/dealdesk/internal/observability/metrics"
	partydomain "github.com/luxfolio/dealdesk/internal/party/domain"
	saledomain "github.com/luxfolio/dealdesk/internal/sale/domain"
	vatdomain "github.com/luxfolio/dealdesk/internal/vat/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const pushTimeout = 30 * time.Second

type Params struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       saledomain.Repository
	Calculator *economics.Calculator
	Engine     *commission.Engine
	Resolver   vatdomain.Resolver
	Bands      banddomain.Service
	Parties    partydomain.Service
	Errlog     errlogdomain.Service
	Accounting accounting.Client
	Clock      clock.Clock
	Metrics    *metrics.Metrics `optional:"true"`
}

type service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	repo       saledomain.Repository
	calculator *economics.Calculator
	engine     *commission.Engine
	resolver   vatdomain.Resolver
	bands      banddomain.Service
	parties    partydomain.Service
	errlog     errlogdomain.Service
	accounting accounting.Client
	clock      clock.Clock
	metrics    *metrics.Metrics
}

func NewService(p Params) saledomain.Service {
	return &service{
		log:        p.Log.Named("sale.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		calculator: p.Calculator,
		engine:     p.Engine,
		resolver:   p.Resolver,
		bands:      p.Bands,
		parties:    p.Parties,
		errlog:     p.Errlog,
		accounting: p.Accounting,
		clock:      p.Clock,
		metrics:    p.Metrics,
	}
}

func (s *service) Create(ctx context.Context, req saledomain.CreateRequest) (*saledomain.Sale, error) {
	if !validAmount(req.SaleAmountIncVAT) || !validAmount(req.BuyPrice) {
		return nil, saledomain.ErrInvalidAmount
	}
	if strings.TrimSpace(req.ItemDescription) == "" {
		return nil, saledomain.ErrInvalidID
	}

	sale := &saledomain.Sale{
		ID:                        s.genID.Generate(),
		ItemDescription:           strings.TrimSpace(req.ItemDescription),
		BrandingTheme:             strings.TrimSpace(req.BrandingTheme),
		BuyerContactID:            req.BuyerContactID,
		SupplierContactID:         req.SupplierContactID,
		SaleAmountIncVAT:          req.SaleAmountIncVAT,
		BuyPrice:                  req.BuyPrice,
		CardFees:                  req.CardFees,
		ShippingCost:              req.ShippingCost,
		DirectCosts:               req.DirectCosts,
		IntroducerCommission:      req.IntroducerCommission,
		CommissionOverridePercent: req.CommissionOverridePercent,
		Status:                    saledomain.StatusDraft,
	}

	var err error
	if sale.ShopperID, err = parseOptionalID(req.ShopperID); err != nil {
		return nil, saledomain.ErrInvalidParty
	}
	if sale.IntroducerID, err = parseOptionalID(req.IntroducerID); err != nil {
		return nil, saledomain.ErrInvalidParty
	}

	if err := s.recompute(ctx, sale); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SalesCreated.Inc()
	}
	s.log.Info("sale_created",
		zap.String("sale_id", sale.ID.String()),
		zap.Float64("commissionable_margin", sale.CommissionableMargin),
		zap.String("rate_source", sale.CommissionRateSource),
	)
	return sale, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*saledomain.Sale, error) {
	saleID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, saledomain.ErrInvalidID
	}
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, saledomain.ErrSaleNotFound
	}
	return sale, nil
}

func (s *service) List(ctx context.Context, req saledomain.ListRequest) ([]saledomain.Sale, error) {
	if req.Status != "" && !saledomain.IsValidStatus(req.Status) {
		return nil, saledomain.ErrInvalidStatus
	}
	return s.repo.List(ctx, req)
}

func (s *service) Update(ctx context.Context, req saledomain.UpdateRequest) (*saledomain.Sale, error) {
	sale, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	financial := req.SaleAmountIncVAT != nil || req.BuyPrice != nil ||
		req.CardFees != nil || req.ShippingCost != nil || req.DirectCosts != nil ||
		req.IntroducerCommission != nil || req.CommissionOverridePercent != nil ||
		req.IntroducerID != nil || req.BrandingTheme != nil
	if financial && sale.CommissionLocked {
		return nil, saledomain.ErrCommissionLocked
	}

	if req.ItemDescription != nil {
		sale.ItemDescription = strings.TrimSpace(*req.ItemDescription)
	}
	if req.BrandingTheme != nil {
		sale.BrandingTheme = strings.TrimSpace(*req.BrandingTheme)
	}
	if req.BuyerContactID != nil {
		sale.BuyerContactID = *req.BuyerContactID
	}
	if req.SupplierContactID != nil {
		sale.SupplierContactID = *req.SupplierContactID
	}
	if req.ShopperID != nil {
		if sale.ShopperID, err = parseOptionalID(req.ShopperID); err != nil {
			return nil, saledomain.ErrInvalidParty
		}
	}
	if req.IntroducerID != nil {
		if sale.IntroducerID, err = parseOptionalID(req.IntroducerID); err != nil {
			return nil, saledomain.ErrInvalidParty
		}
	}
	if req.SaleAmountIncVAT != nil {
		if !validAmount(*req.SaleAmountIncVAT) {
			return nil, saledomain.ErrInvalidAmount
		}
		sale.SaleAmountIncVAT = *req.SaleAmountIncVAT
	}
	if req.BuyPrice != nil {
		if !validAmount(*req.BuyPrice) {
			return nil, saledomain.ErrInvalidAmount
		}
		sale.BuyPrice = *req.BuyPrice
	}
	if req.CardFees != nil {
		sale.CardFees = *req.CardFees
	}
	if req.ShippingCost != nil {
		sale.ShippingCost = *req.ShippingCost
	}
	if req.DirectCosts != nil {
		sale.DirectCosts = *req.DirectCosts
	}
	if req.IntroducerCommission != nil {
		sale.IntroducerCommission = *req.IntroducerCommission
	}
	if req.CommissionOverridePercent != nil {
		sale.CommissionOverridePercent = req.CommissionOverridePercent
	}

	if financial {
		if err := s.recompute(ctx, sale); err != nil {
			return nil, err
		}
	}
	sale.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	sale, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, sale.ID)
}

func (s *service) Transition(ctx context.Context, id string, next saledomain.DealStatus, opts saledomain.TransitionOptions) (*saledomain.Sale, error) {
	sale, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !saledomain.IsValidStatus(next) {
		return nil, saledomain.ErrInvalidStatus
	}

	if !saledomain.CanTransition(sale.Status, next) {
		s.rejectTransition(ctx, sale, next)
		return nil, saledomain.ErrInvalidTransition
	}

	now := s.clock.Now()
	fields := map[string]any{
		"status":     next,
		"updated_at": now,
	}
	switch next {
	case saledomain.StatusPaid:
		paymentDate := now
		if opts.PaymentDate != nil {
			paymentDate = *opts.PaymentDate
		}
		fields["payment_date"] = paymentDate
	case saledomain.StatusLocked:
		fields["commission_locked"] = true
		fields["commission_locked_at"] = now
	case saledomain.StatusCommissionPaid:
		fields["commission_paid"] = true
		fields["commission_paid_at"] = now
	}

	if err := s.repo.UpdateFields(ctx, sale.ID, fields); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SaleTransitions.WithLabelValues(string(next)).Inc()
	}
	s.log.Info("sale_transitioned",
		zap.String("sale_id", sale.ID.String()),
		zap.String("from", string(sale.Status)),
		zap.String("to", string(next)),
	)

	if next == saledomain.StatusInvoiced {
		go s.pushInvoice(sale)
	}

	return s.repo.FindByID(ctx, sale.ID)
}

// rejectTransition records the attempt without failing anything beyond
// the transition itself: error flag on the sale, an error entry, a log
// line carrying the valid next states for whoever is debugging.
func (s *service) rejectTransition(ctx context.Context, sale *saledomain.Sale, next saledomain.DealStatus) {
	validNext := saledomain.ValidNextStatuses(sale.Status)
	msg := fmt.Sprintf("invalid transition %s -> %s", sale.Status, next)

	if err := s.repo.UpdateFields(ctx, sale.ID, map[string]any{
		"error_flag":    true,
		"error_message": msg,
		"updated_at":    s.clock.Now(),
	}); err != nil {
		s.log.Error("transition_flag_update_failed", zap.Error(err), zap.String("sale_id", sale.ID.String()))
	}

	s.errlog.Append(ctx, errlogdomain.SeverityError, "sale.lifecycle", []string{msg}, &sale.ID, map[string]any{
		"from":       string(sale.Status),
		"to":         string(next),
		"valid_next": statusStrings(validNext),
	})

	if s.metrics != nil {
		s.metrics.InvalidTransitions.Inc()
	}
	s.log.Warn("invalid_transition",
		zap.String("sale_id", sale.ID.String()),
		zap.String("from", string(sale.Status)),
		zap.String("to", string(next)),
		zap.Strings("valid_next", statusStrings(validNext)),
	)
}

func (s *service) FixVAT(ctx context.Context, id string, brandingTheme string) (*saledomain.Sale, error) {
	sale, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.CommissionLocked {
		return nil, saledomain.ErrCommissionLocked
	}

	theme := strings.TrimSpace(brandingTheme)
	if _, ok := s.resolver.Resolve(theme); !ok {
		return nil, saledomain.ErrUnknownTheme
	}

	sale.BrandingTheme = theme
	if err := s.recompute(ctx, sale); err != nil {
		return nil, err
	}
	sale.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.log.Info("sale_vat_fixed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("branding_theme", theme),
		zap.Float64("vat_rate", sale.VATRate),
	)
	return sale, nil
}

func (s *service) Allocate(ctx context.Context, id string, overridePercent float64) (*saledomain.Sale, error) {
	if math.IsNaN(overridePercent) || math.IsInf(overridePercent, 0) || overridePercent < 0 {
		return nil, saledomain.ErrInvalidOverride
	}

	sale, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.CommissionLocked {
		return nil, saledomain.ErrCommissionLocked
	}

	sale.CommissionOverridePercent = &overridePercent
	if err := s.recompute(ctx, sale); err != nil {
		return nil, err
	}
	sale.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.log.Info("sale_commission_allocated",
		zap.String("sale_id", sale.ID.String()),
		zap.Float64("override_percent", overridePercent),
		zap.Float64("commission_amount", sale.CommissionAmount),
	)
	return sale, nil
}

func (s *service) LinkExternalInvoice(ctx context.Context, id string, invoiceID, invoiceNumber string) (*saledomain.Sale, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, saledomain.ErrMissingInvoiceLink
	}
	sale, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(ctx, sale.ID, map[string]any{
		"external_invoice_id":     invoiceID,
		"external_invoice_number": invoiceNumber,
		"updated_at":              s.clock.Now(),
	}); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, sale.ID)
}

// recompute refreshes the economics and commission snapshot columns
// from the sale's current inputs. Calculation problems flag the sale
// and land in the error log; they never block persistence.
func (s *service) recompute(ctx context.Context, sale *saledomain.Sale) error {
	eco := s.calculator.Compute(economics.Inputs{
		SaleAmountIncVAT:     sale.SaleAmountIncVAT,
		BuyPrice:             sale.BuyPrice,
		CardFees:             sale.CardFees,
		ShippingCost:         sale.ShippingCost,
		DirectCosts:          sale.DirectCosts,
		IntroducerCommission: sale.IntroducerCommission,
		BrandingTheme:        sale.BrandingTheme,
	})

	sale.SaleAmountExVAT = eco.SaleAmountExVAT
	sale.VATAmount = eco.VATAmount
	sale.VATRate = eco.VATRate
	sale.VATAssumed = eco.VATAssumed
	sale.GrossMargin = eco.GrossMargin
	sale.CommissionableMargin = eco.CommissionableMargin
	sale.GrossMarginPercent = eco.GrossMarginPercent
	sale.CommissionableMarginPercent = eco.CommissionableMarginPercent

	var introducerPercent *float64
	if sale.IntroducerID != nil {
		introducer, err := s.parties.GetByID(ctx, sale.IntroducerID.String())
		if err != nil {
			return err
		}
		if introducer == nil || introducer.Type != partydomain.TypeIntroducer {
			return saledomain.ErrInvalidParty
		}
		introducerPercent = introducer.CommissionPercent
	}

	var bandPercent *float64
	sale.CommissionBandID = nil
	if sale.CommissionOverridePercent == nil {
		band, err := s.bands.ResolveForMargin(ctx, sale.CommissionableMargin)
		if err != nil {
			return err
		}
		if band != nil {
			bandPercent = &band.Percent
			bandID := band.ID
			sale.CommissionBandID = &bandID
		}
	}

	result := s.engine.Calculate(commission.Input{
		CommissionableMargin: sale.CommissionableMargin,
		OverridePercent:      sale.CommissionOverridePercent,
		BandPercent:          bandPercent,
		IntroducerPercent:    introducerPercent,
	})

	sale.CommissionRateSource = string(result.RateSource)
	sale.CommissionAmount = result.CommissionAmount
	sale.IntroducerSplit = result.IntroducerSplit
	sale.ShopperSplit = result.ShopperSplit

	var problems []string
	problems = append(problems, eco.Warnings...)
	problems = append(problems, result.Errors...)

	sale.ErrorFlag = len(problems) > 0
	sale.ErrorMessage = strings.Join(problems, "; ")

	if len(eco.Warnings) > 0 {
		s.errlog.Append(ctx, errlogdomain.SeverityWarning, "sale.economics", eco.Warnings, &sale.ID, nil)
	}
	if len(result.Errors) > 0 {
		s.errlog.Append(ctx, errlogdomain.SeverityWarning, "sale.commission", result.Errors, &sale.ID, nil)
	}
	if len(result.Flags) > 0 {
		s.errlog.Append(ctx, errlogdomain.SeverityWarning, "sale.commission", result.Flags, &sale.ID, nil)
	}
	return nil
}

// pushInvoice is a best-effort, detached push to the accounting
// platform. Failures are recorded for operators; the transition that
// triggered the push has already committed.
func (s *service) pushInvoice(sale *saledomain.Sale) {
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	accountCode := ""
	if res, ok := s.resolver.Resolve(sale.BrandingTheme); ok {
		accountCode = res.Mapping.AccountCode
	}

	ref, err := s.accounting.PushInvoice(ctx, accounting.Invoice{
		SaleID:        sale.ID.String(),
		ContactID:     sale.BuyerContactID,
		BrandingTheme: sale.BrandingTheme,
		AccountCode:   accountCode,
		AmountIncVAT:  sale.SaleAmountIncVAT,
		AmountExVAT:   sale.SaleAmountExVAT,
		VATAmount:     sale.VATAmount,
		Reference:     sale.ItemDescription,
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.AccountingPushes.WithLabelValues("failure").Inc()
		}
		s.errlog.Append(ctx, errlogdomain.SeverityError, "accounting.push", []string{err.Error()}, &sale.ID, nil)
		s.log.Error("invoice_push_failed", zap.Error(err), zap.String("sale_id", sale.ID.String()))
		return
	}

	if s.metrics != nil {
		s.metrics.AccountingPushes.WithLabelValues("success").Inc()
	}
	if err := s.repo.UpdateFields(ctx, sale.ID, map[string]any{
		"external_invoice_id":     ref.InvoiceID,
		"external_invoice_number": ref.InvoiceNumber,
		"updated_at":              s.clock.Now(),
	}); err != nil {
		s.log.Error("invoice_link_update_failed", zap.Error(err), zap.String("sale_id", sale.ID.String()))
	}
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func parseOptionalID(raw *string) (*snowflake.ID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func statusStrings(statuses []saledomain.DealStatus) []string {
	out := make([]string, len(statuses))
	for i, st := range statuses {
		out[i] = string(st)
	}
	return out
}
