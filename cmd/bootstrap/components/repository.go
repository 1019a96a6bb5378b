package components

import (
	"campus-booking/internal/infra/repository"
	"campus-booking/internal/usecase"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repository.NewUserRepository,
			fx.As(new(usecase.UserRepository)),
		),
		fx.Annotate(
			repository.NewBookingRepository,
			fx.As(new(usecase.BookingRepository)),
		),
		fx.Annotate(
			repository.NewFacilityRepository,
			fx.As(new(usecase.FacilityRepository)),
		),
		fx.Annotate(
			repository.NewAlertRepository,
			fx.As(new(usecase.AlertRepository)),
		),
	),
)
