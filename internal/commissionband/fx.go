package commissionband

import (
	"github.com/luxfolio/dealdesk/internal/commissionband/repository"
	"github.com/luxfolio/dealdesk/internal/commissionband/service"
	"go.uber.org/fx"
)

var Module = fx.Module("commissionband.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
