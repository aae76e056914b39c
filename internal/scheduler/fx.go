package scheduler

import (
	"context"
	"time"

	"github.com/luxfolio/dealdesk/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("scheduler",
	fx.Provide(ProvideConfig),
	fx.Provide(New),
	fx.Invoke(Run),
)

func ProvideConfig(cfg config.Config) Config {
	c := DefaultConfig()
	if cfg.ErrlogRetentionDays > 0 {
		c.ErrlogRetention = time.Duration(cfg.ErrlogRetentionDays) * 24 * time.Hour
	}
	return c
}

func Run(lc fx.Lifecycle, sched *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			go sched.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
			return nil
		},
	})
}
