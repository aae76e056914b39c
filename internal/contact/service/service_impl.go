package service

import (
	"context"

	contactcache "github.com/luxfolio/dealdesk/internal/contact/cache"
	"github.com/luxfolio/dealdesk/internal/contact/domain"
	"github.com/luxfolio/dealdesk/internal/contact/matcher"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Store *contactcache.Store
}

type service struct {
	log   *zap.Logger
	store *contactcache.Store
}

func NewService(p Params) domain.Service {
	return &service{
		log:   p.Log.Named("contact.service"),
		store: p.Store,
	}
}

func (s *service) SearchBuyers(ctx context.Context, query string, limit int) ([]domain.ScoredResult, error) {
	contacts, err := s.store.Contacts(ctx)
	if err != nil {
		return nil, err
	}
	return matcher.SearchBuyers(query, contacts, limit), nil
}

func (s *service) SearchSuppliers(ctx context.Context, query string, limit int) ([]domain.ScoredResult, error) {
	contacts, err := s.store.Contacts(ctx)
	if err != nil {
		return nil, err
	}
	return matcher.SearchSuppliers(query, contacts, limit), nil
}

func (s *service) Refresh(ctx context.Context) error {
	return s.store.Refresh(ctx)
}
