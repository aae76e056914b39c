package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/luxfolio/dealdesk/internal/clock"
	"github.com/luxfolio/dealdesk/internal/party/domain"
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
		log:   p.Log.Named("party.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Party, error) {
	now := s.clock.Now()
	party := domain.Party{
		ID:                s.genID.Generate(),
		Type:              req.Type,
		Name:              strings.TrimSpace(req.Name),
		Email:             strings.TrimSpace(req.Email),
		CommissionPercent: req.CommissionPercent,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := party.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &party); err != nil {
		return nil, err
	}
	return &party, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Party, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	party, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return nil, domain.ErrNotFound
	}
	return party, nil
}

func (s *Service) List(ctx context.Context, partyType domain.PartyType) ([]domain.Party, error) {
	return s.repo.List(ctx, partyType)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Party, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	party, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		party.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		party.Email = strings.TrimSpace(*req.Email)
	}
	if req.CommissionPercent != nil {
		party.CommissionPercent = req.CommissionPercent
	}
	if req.IsActive != nil {
		party.IsActive = *req.IsActive
	}
	party.UpdatedAt = s.clock.Now()

	if err := party.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, party); err != nil {
		return nil, err
	}
	return party, nil
}
