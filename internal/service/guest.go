package service

import (
	"context"
	"fmt"
	"strings"

	"hotelcore/internal/domain"
	"hotelcore/internal/repository"
)

type guestService struct {
	run runner
}

func NewGuestService(txm repository.TxManager) GuestService {
	return &guestService{run: runner{txm: txm}}
}

// CreateGuest stores identity fields only. Aggregates start at zero.
func (s *guestService) CreateGuest(ctx context.Context, propertyID int64, guest *domain.Guest) error {
	guest.FirstName = strings.TrimSpace(guest.FirstName)
	guest.LastName = strings.TrimSpace(guest.LastName)
	if guest.FirstName == "" {
		return fmt.Errorf("%w: first name is required", domain.ErrInvalidArgument)
	}
	err := s.run.write(ctx, propertyID, func(ctx context.Context, uow *unitOfWork) error {
		return uow.Guests().Create(ctx, guest)
	})
	return publicError(ctx, "guestService.CreateGuest", err)
}

func (s *guestService) GetGuest(ctx context.Context, propertyID, guestID int64) (*domain.Guest, error) {
	var guest *domain.Guest
	err := s.run.read(ctx, propertyID, func(ctx context.Context, tx repository.Tx) error {
		var err error
		guest, err = tx.Guests().GetByID(ctx, guestID)
		return err
	})
	if err != nil {
		return nil, publicError(ctx, "guestService.GetGuest", err)
	}
	return guest, nil
}
