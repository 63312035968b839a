package bootstrap

import (
	"hotelier/internal/pkg/cardvault"
	"hotelier/internal/pkg/config"

	"go.uber.org/fx"
)

var VaultModule = fx.Module("vault",
	fx.Provide(
		NewCardVault,
	),
)

func NewCardVault(cfg config.Config) (*cardvault.Vault, error) {
	return cardvault.NewVault(cfg.Vault.CardKey)
}
