package bootstrap

import (
	"hotelier/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	AMQPModule,
	JWTModule,
	VaultModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
