package usecase

import (
	"context"

	"campus-booking/internal/infra"
	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type FacilityUseCase interface {
	ListFacilities(ctx context.Context) ([]*readmodel.FacilityRM, error)
	GetFacility(ctx context.Context, facilityID uuid.UUID) (*readmodel.FacilityRM, error)
}

type facilityUseCaseImpl struct {
	facilityRepo FacilityRepository
}

func NewFacilityUseCase(facilityRepo FacilityRepository) FacilityUseCase {
	return &facilityUseCaseImpl{facilityRepo: facilityRepo}
}

func (u *facilityUseCaseImpl) ListFacilities(ctx context.Context) ([]*readmodel.FacilityRM, error) {
	rms, err := u.facilityRepo.FindAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rms, nil
}

func (u *facilityUseCaseImpl) GetFacility(ctx context.Context, facilityID uuid.UUID) (*readmodel.FacilityRM, error) {
	rm, err := u.facilityRepo.FindByID(ctx, facilityID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrFacilityNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rm, nil
}
