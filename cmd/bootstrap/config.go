package bootstrap

import (
	"campus-booking/internal/domain/facility"
	"campus-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewBookingConfig,
		NewOperatingHours,
	),
)

func NewBookingConfig(cfg config.Config) config.BookingConfig {
	return cfg.Booking
}

// NewOperatingHours parses the campus-wide booking window from configuration.
func NewOperatingHours(cfg config.Config) (facility.OperatingHours, error) {
	return facility.ParseOperatingHours(cfg.Booking.OpeningTime, cfg.Booking.ClosingTime)
}
