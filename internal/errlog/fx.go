package errlog

import (
	"github.com/luxfolio/dealdesk/internal/errlog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("errlog.service",
	fx.Provide(service.New),
)
