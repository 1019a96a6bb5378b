package usecase

import (
	"context"

	"campus-booking/internal/domain/alert"
	reqdto "campus-booking/internal/handler/dto/request"
	"campus-booking/internal/infra"
	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type AlertRepository interface {
	Create(ctx context.Context, a *alert.Alert) error
	MarkRead(ctx context.Context, id uuid.UUID) error
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.AlertRM, error)
	FindAll(ctx context.Context) ([]*readmodel.AlertRM, error)
}

type NotificationUseCase interface {
	ListAlerts(ctx context.Context, userID uuid.UUID) ([]*readmodel.AlertRM, error)
	MarkAlertRead(ctx context.Context, userID, alertID uuid.UUID) error
	CreateAlert(ctx context.Context, req reqdto.CreateAlertRequest) (*alert.Alert, error)
}

type notificationUseCaseImpl struct {
	alertRepo AlertRepository
}

func NewNotificationUseCase(alertRepo AlertRepository) NotificationUseCase {
	return &notificationUseCaseImpl{alertRepo: alertRepo}
}

// ListAlerts returns the user's alerts with equipment status normalized:
// records predating the structured column have it recovered from the message
// text, and the message stripped of the embedded fragment.
func (n *notificationUseCaseImpl) ListAlerts(ctx context.Context, userID uuid.UUID) ([]*readmodel.AlertRM, error) {
	rms, err := n.alertRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	for _, rm := range rms {
		if len(rm.Equipment) > 0 {
			continue
		}
		equipment, message := alert.ParseLegacyEquipment(rm.Message)
		rm.Equipment = equipment
		rm.Message = message
	}
	return rms, nil
}

func (n *notificationUseCaseImpl) MarkAlertRead(ctx context.Context, userID, alertID uuid.UUID) error {
	rms, err := n.alertRepo.FindByUser(ctx, userID)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	for _, rm := range rms {
		if rm.ID == alertID {
			if err := n.alertRepo.MarkRead(ctx, alertID); err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					return errs.ErrAlertNotFound
				}
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			return nil
		}
	}
	return errs.ErrAlertNotFound
}

func (n *notificationUseCaseImpl) CreateAlert(ctx context.Context, req reqdto.CreateAlertRequest) (*alert.Alert, error) {
	severity, err := alert.NewSeverity(req.Severity)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidationFailed)
	}

	a, err := alert.NewAlert(req.Title, req.Message, severity, req.BookingID, req.UserID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidationFailed)
	}
	if len(req.Equipment) > 0 {
		a.WithEquipment(req.Equipment)
	}

	if err := n.alertRepo.Create(ctx, a); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return a, nil
}
