package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/luxfolio/dealdesk/internal/clock"
	"github.com/luxfolio/dealdesk/internal/commissionband/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("commissionband.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.CommissionBand, error) {
	now := s.clock.Now()
	band := domain.CommissionBand{
		ID:        s.genID.Generate(),
		Name:      strings.TrimSpace(req.Name),
		MinMargin: req.MinMargin,
		MaxMargin: req.MaxMargin,
		Percent:   req.Percent,
		IsEnabled: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := band.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &band); err != nil {
		return nil, err
	}
	return &band, nil
}

func (s *Service) List(ctx context.Context) ([]domain.CommissionBand, error) {
	return s.repo.List(ctx, false)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.CommissionBand, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	band, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if band == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		band.Name = strings.TrimSpace(*req.Name)
	}
	if req.MinMargin != nil {
		band.MinMargin = *req.MinMargin
	}
	if req.MaxMargin != nil {
		band.MaxMargin = req.MaxMargin
	}
	if req.Percent != nil {
		band.Percent = *req.Percent
	}
	if req.IsEnabled != nil {
		band.IsEnabled = *req.IsEnabled
	}
	band.UpdatedAt = s.clock.Now()

	if err := band.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, band); err != nil {
		return nil, err
	}
	return band, nil
}

func (s *Service) ResolveForMargin(ctx context.Context, margin float64) (*domain.CommissionBand, error) {
	bands, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	for i := range bands {
		if bands[i].Contains(margin) {
			return &bands[i], nil
		}
	}
	return nil, nil
}
