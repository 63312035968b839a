package bootstrap

import (
	"context"

	"hotelier/internal/infra/notify"
	"hotelier/internal/pkg/config"

	"go.uber.org/fx"
)

var AMQPModule = fx.Module("amqp",
	fx.Provide(
		NewPublisher,
	),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config) (*notify.Publisher, error) {
	publisher, cleanup, err := notify.NewPublisher(cfg.AMQP)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return publisher, nil
}
