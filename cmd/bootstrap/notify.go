package bootstrap

import (
	"context"

	"librarium/internal/infra/mailer"
	"librarium/internal/infra/notify"
	"librarium/internal/pkg/config"
	"librarium/internal/usecase/commands"

	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		NewMailer,
		commands.NewNotificationCommands,
		fx.Annotate(
			NewDispatcher,
			fx.As(new(commands.Dispatcher)),
		),
	),
)

func NewMailer(cfg config.Config) commands.Mailer {
	return mailer.NewSMTPMailer(cfg.Mail)
}

func NewDispatcher(lc fx.Lifecycle, cfg config.Config, notifier commands.NotificationCommands) *notify.Dispatcher {
	d := notify.NewDispatcher(notifier, cfg.Lending.NotifyQueueSize)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			d.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			d.Stop()
			return nil
		},
	})

	return d
}
