package vat

import (
	"github.com/luxfolio/dealdesk/internal/vat/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vat.resolver",
	fx.Provide(service.NewResolver),
)
