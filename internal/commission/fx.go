package commission

import "go.uber.org/fx"

var Module = fx.Module("commission.engine",
	fx.Provide(NewEngine),
)
