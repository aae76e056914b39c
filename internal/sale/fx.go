package sale

import (
	"github.com/luxfolio/dealdesk/internal/sale/repository"
	"github.com/luxfolio/dealdesk/internal/sale/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sale.service",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
