package accounting

import (
	"github.com/luxfolio/dealdesk/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("accounting.client",
	fx.Provide(NewFromConfig),
)

// NewFromConfig picks the real HTTP client when a base URL is
// configured, otherwise the in-memory fake.
func NewFromConfig(cfg config.Config, log *zap.Logger) Client {
	if cfg.AccountingBaseURL == "" {
		log.Named("accounting").Warn("no accounting base URL configured, using in-memory fake client")
		return NewFakeClient()
	}
	return NewHTTPClient(cfg.AccountingBaseURL, cfg.AccountingTenant)
}
