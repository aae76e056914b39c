package party

import (
	"github.com/luxfolio/dealdesk/internal/party/repository"
	"github.com/luxfolio/dealdesk/internal/party/service"
	"go.uber.org/fx"
)

var Module = fx.Module("party.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
