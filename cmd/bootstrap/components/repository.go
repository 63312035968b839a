package components

import (
	"hotelier/internal/infra/repository"
	"hotelier/internal/usecase/commands"
	"hotelier/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repository.NewReservationRepository,
			fx.As(new(commands.ReservationRepository)),
		),
		fx.Annotate(
			repository.NewHotelRepository,
			fx.As(new(commands.HotelRepository)),
		),
		fx.Annotate(
			repository.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
		// Read-side stores for queries
		fx.Annotate(
			repository.NewReservationReadStore,
			fx.As(new(queries.ReservationQueries)),
		),
		repository.NewHotelRepository,
		fx.Annotate(
			repository.NewHotelReadStore,
			fx.As(new(queries.HotelQueries)),
		),
	),
)
