package components

import (
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		usecase.NewTokenValidator,
		usecase.NewAuthUseCase,
		usecase.NewBookingUseCase,
		usecase.NewFacilityUseCase,
		usecase.NewAvailabilityUseCase,
		usecase.NewAdminUseCase,
		usecase.NewNotificationUseCase,
	),
)
