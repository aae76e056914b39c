package contact

import (
	"context"
	"time"

	"github.com/luxfolio/dealdesk/internal/accounting"
	"github.com/luxfolio/dealdesk/internal/config"
	contactcache "github.com/luxfolio/dealdesk/internal/contact/cache"
	"github.com/luxfolio/dealdesk/internal/contact/service"
	"github.com/luxfolio/dealdesk/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("contact.service",
	fx.Provide(
		newStore,
		service.NewService,
	),
)

func newStore(lc fx.Lifecycle, cfg config.Config, client accounting.Client, log *zap.Logger, m *metrics.Metrics) *contactcache.Store {
	ttl := time.Duration(cfg.ContactCacheTTLMinutes) * time.Minute
	store := contactcache.NewStore(client, ttl, log, m)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			store.Close()
			return nil
		},
	})
	return store
}
