package components

import (
	"campus-booking/internal/handler"
	"campus-booking/internal/handler/api"
	"campus-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewBookingHandler,
		api.NewFacilityHandler,
		api.NewAvailabilityHandler,
		api.NewNotificationHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
		middleware.NewRateLimiter,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	booking *api.BookingHandler,
	facility *api.FacilityHandler,
	availability *api.AvailabilityHandler,
	notification *api.NotificationHandler,
	admin *api.AdminHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:         auth,
		Booking:      booking,
		Facility:     facility,
		Availability: availability,
		Notification: notification,
		Admin:        admin,
	}
}
