package service

import (
	"context"
	"strings"
	"time"

	"hotelcore/internal/domain"
	"hotelcore/internal/repository"
	"hotelcore/internal/utils"
)

type availabilityService struct {
	run runner
}

func NewAvailabilityService(txm repository.TxManager) AvailabilityService {
	return &availabilityService{run: runner{txm: txm}}
}

func (s *availabilityService) CheckAvailability(ctx context.Context, propertyID, roomID int64, checkIn, checkOut time.Time, excludeBookingID *int64) (bool, error) {
	dr, err := utils.NewDateRange(checkIn, checkOut)
	if err != nil {
		return false, err
	}

	var available bool
	err = s.run.read(ctx, propertyID, func(ctx context.Context, tx repository.Tx) error {
		room, err := tx.Rooms().GetByID(ctx, roomID)
		if err != nil {
			return err
		}
		available, err = roomAvailable(ctx, tx, room, dr, excludeBookingID)
		return err
	})
	if err != nil {
		return false, publicError(ctx, "availabilityService.CheckAvailability", err)
	}
	return available, nil
}

func (s *availabilityService) AvailableRooms(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) ([]domain.Room, error) {
	dr, err := utils.NewDateRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	var free []domain.Room
	err = s.run.read(ctx, propertyID, func(ctx context.Context, tx repository.Tx) error {
		rooms, err := tx.Rooms().List(ctx)
		if err != nil {
			return err
		}
		for i := range rooms {
			ok, err := roomAvailable(ctx, tx, &rooms[i], dr, nil)
			if err != nil {
				return err
			}
			if ok {
				free = append(free, rooms[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, publicError(ctx, "availabilityService.AvailableRooms", err)
	}
	return free, nil
}

// CreateRoomBlock holds a room out of inventory. A block may not cover a
// night already held by a booking.
func (s *availabilityService) CreateRoomBlock(ctx context.Context, propertyID, roomID int64, dateFrom, dateTo time.Time, reason string) (*domain.RoomBlock, error) {
	dr, err := utils.NewDateRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	block := &domain.RoomBlock{RoomID: roomID, DateFrom: dr.CheckIn, DateTo: dr.CheckOut, Reason: strings.TrimSpace(reason)}
	err = s.run.write(ctx, propertyID, func(ctx context.Context, uow *unitOfWork) error {
		if _, err := uow.Rooms().LockByID(ctx, roomID); err != nil {
			return err
		}
		held, err := uow.Bookings().ListOverlapping(ctx, roomID, dr.CheckIn, dr.CheckOut, nil)
		if err != nil {
			return err
		}
		if len(held) > 0 {
			return domain.ErrRoomNotAvailable
		}
		return uow.RoomBlocks().Create(ctx, block)
	})
	if err != nil {
		return nil, publicError(ctx, "availabilityService.CreateRoomBlock", err)
	}
	return block, nil
}

func (s *availabilityService) DeleteRoomBlock(ctx context.Context, propertyID, blockID int64) error {
	err := s.run.write(ctx, propertyID, func(ctx context.Context, uow *unitOfWork) error {
		return uow.RoomBlocks().Delete(ctx, blockID)
	})
	return publicError(ctx, "availabilityService.DeleteRoomBlock", err)
}

// roomAvailable is the availability decision. It must run in the transaction
// that will write the booking, after the room row is locked.
func roomAvailable(ctx context.Context, tx repository.Tx, room *domain.Room, dr utils.DateRange, excludeBookingID *int64) (bool, error) {
	if !room.Bookable() {
		return false, nil
	}
	blocks, err := tx.RoomBlocks().ListOverlapping(ctx, room.ID, dr.CheckIn, dr.CheckOut)
	if err != nil {
		return false, err
	}
	if len(blocks) > 0 {
		return false, nil
	}
	bookings, err := tx.Bookings().ListOverlapping(ctx, room.ID, dr.CheckIn, dr.CheckOut, excludeBookingID)
	if err != nil {
		return false, err
	}
	return len(bookings) == 0, nil
}
