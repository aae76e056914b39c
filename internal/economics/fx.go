package economics

import "go.uber.org/fx"

var Module = fx.Module("economics",
	fx.Provide(NewCalculator),
)
