package components

import (
	"fmt"

	"hotelier/internal/infra/gateway"
	"hotelier/internal/infra/lock"
	"hotelier/internal/infra/notify"
	"hotelier/internal/pkg/cardvault"
	"hotelier/internal/pkg/clock"
	"hotelier/internal/pkg/config"
	"hotelier/internal/usecase/commands"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	newVerificationAmount,
	func(cfg config.Config) config.GatewayConfig { return cfg.Gateway },
	fx.Annotate(
		gateway.NewClient,
		fx.As(new(gateway.PaymentGateway)),
	),
	fx.Annotate(
		lock.NewCaptureLock,
		fx.As(new(commands.CaptureLocker)),
	),
	fx.Annotate(
		func(v *cardvault.Vault) *cardvault.Vault { return v },
		fx.As(new(commands.CardVault)),
	),
	fx.Annotate(
		func(p *notify.Publisher) *notify.Publisher { return p },
		fx.As(new(commands.EventPublisher)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewDuplicateGuard,
		commands.NewConfirmationAllocator,
		commands.NewReservationCommands,
		commands.NewCaptureCommands,
	),
)

func newVerificationAmount(cfg config.Config) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(cfg.Gateway.VerificationAmount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid GATEWAY_VERIFICATION_AMOUNT: %w", err)
	}
	return amount, nil
}
