package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotelcore/internal/domain"
	"hotelcore/internal/logger"
	"hotelcore/internal/repository"
	"hotelcore/internal/utils"
)

// BookingPolicy holds the property-independent lifecycle rules.
type BookingPolicy struct {
	// EnforceCheckInDate rejects check-in before the booking's check-in date
	// in the property's timezone.
	EnforceCheckInDate bool
	// NoShowGraceDays keeps unarrived bookings open this many days past check-out.
	NoShowGraceDays int
	// Now defaults to time.Now.
	Now func() time.Time
}

type bookingService struct {
	run    runner
	policy BookingPolicy
}

func NewBookingService(txm repository.TxManager, policy BookingPolicy) BookingService {
	if policy.Now == nil {
		policy.Now = time.Now
	}
	return &bookingService{run: runner{txm: txm}, policy: policy}
}

func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CreateBooking", "propertyID", in.PropertyID, "roomID", in.RoomID, "guestID", in.GuestID)

	dr, err := utils.NewDateRange(in.CheckIn, in.CheckOut)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "roomID", in.RoomID)
		return nil, err
	}
	if err := validateOccupancy(in.Adults, in.Children); err != nil {
		return nil, err
	}
	if in.TotalAmountOverride != nil && *in.TotalAmountOverride < 0 {
		return nil, fmt.Errorf("%w: total amount must not be negative", domain.ErrInvalidArgument)
	}

	source := in.Source
	if source == "" {
		source = domain.BookingSourceDirect
	}
	booking := &domain.Booking{
		RoomID:   in.RoomID,
		GuestID:  in.GuestID,
		CheckIn:  dr.CheckIn,
		CheckOut: dr.CheckOut,
		Adults:   in.Adults,
		Children: in.Children,
		Status:   domain.BookingStatusNew,
		Source:   source,
		Notes:    strings.TrimSpace(in.Notes),
	}

	err = s.run.write(ctx, in.PropertyID, func(ctx context.Context, uow *unitOfWork) error {
		room, err := uow.Rooms().LockByID(ctx, in.RoomID)
		if err != nil {
			return err
		}
		if _, err := uow.Guests().GetByID(ctx, in.GuestID); err != nil {
			return err
		}
		available, err := roomAvailable(ctx, uow, room, dr, nil)
		if err != nil {
			return err
		}
		if !available {
			return domain.ErrRoomNotAvailable
		}

		if in.TotalAmountOverride != nil {
			booking.TotalAmount = *in.TotalAmountOverride
		} else {
			quote, err := quoteStay(ctx, uow, room, dr)
			if err != nil {
				return err
			}
			booking.TotalAmount = quote.Total
			booking.RateID = uniformRateID(quote)
		}

		if err := uow.Bookings().Create(ctx, booking); err != nil {
			return err
		}
		uow.touchGuest(booking.GuestID)
		return nil
	})
	if err != nil {
		err = publicError(ctx, "bookingService.CreateBooking", err)
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "roomID", in.RoomID)
		return nil, err
	}

	logger.ExitMethod("bookingService.CreateBooking", "bookingID", booking.ID, "total", booking.TotalAmount)
	return booking, nil
}

// UpdateBooking applies patch. Moving the stay re-runs the availability check
// with the booking itself excluded and reprices unless a total is supplied.
func (s *bookingService) UpdateBooking(ctx context.Context, propertyID, bookingID int64, patch domain.BookingPatch) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.UpdateBooking", "propertyID", propertyID, "bookingID", bookingID)

	var booking *domain.Booking
	err := s.run.write(ctx, propertyID, func(ctx context.Context, uow *unitOfWork) error {
		current, err := uow.Bookings().LockByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if current.Status.Terminal() && patchChangesStay(patch) {
			return &domain.StateTransitionError{From: current.Status, To: current.Status, Reason: "booking is closed"}
		}

		next := *current
		applyPatch(&next, patch)
		if err := validateOccupancy(next.Adults, next.Children); err != nil {
			return err
		}
		if next.TotalAmount < 0 {
			return fmt.Errorf("%w: total amount must not be negative", domain.ErrInvalidArgument)
		}
		dr, err := utils.NewDateRange(next.CheckIn, next.CheckOut)
		if err != nil {
			return err
		}
		next.CheckIn, next.CheckOut = dr.CheckIn, dr.CheckOut

		if patch.GuestID != nil && *patch.GuestID != current.GuestID {
			if _, err := uow.Guests().GetByID(ctx, *patch.GuestID); err != nil {
				return err
			}
		}

		if patch.MovesStay() && next.Status.HoldsRoom() {
			room, err := uow.Rooms().LockByID(ctx, next.RoomID)
			if err != nil {
				return err
			}
			available, err := roomAvailable(ctx, uow, room, dr, &current.ID)
			if err != nil {
				return err
			}
			if !available {
				return domain.ErrRoomNotAvailable
			}
			if patch.TotalAmount == nil {
				quote, err := quoteStay(ctx, uow, room, dr)
				if err != nil {
					return err
				}
				next.TotalAmount = quote.Total
				next.RateID = uniformRateID(quote)
			}
		}

		if err := uow.Bookings().Update(ctx, &next); err != nil {
			return err
		}
		uow.touchGuest(current.GuestID)
		uow.touchGuest(next.GuestID)
		booking = &next
		return nil
	})
	if err != nil {
		err = publicError(ctx, "bookingService.UpdateBooking", err)
		logger.ExitMethodWithError("bookingService.UpdateBooking", err, "bookingID", bookingID)
		return nil, err
	}

	logger.ExitMethod("bookingService.UpdateBooking", "bookingID", bookingID)
	return booking, nil
}

func (s *bookingService) TransitionBooking(ctx context.Context, propertyID, bookingID int64, target domain.BookingStatus, reason string) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.TransitionBooking", "propertyID", propertyID, "bookingID", bookingID, "target", target)

	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown booking status %q", domain.ErrInvalidArgument, target)
	}

	var booking *domain.Booking
	err := s.run.write(ctx, propertyID, func(ctx context.Context, uow *unitOfWork) error {
		b, err := uow.Bookings().LockByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := s.applyTransition(ctx, uow, b, target, reason); err != nil {
			return err
		}
		if err := uow.Bookings().Update(ctx, b); err != nil {
			return err
		}
		uow.touchGuest(b.GuestID)
		booking = b
		return nil
	})
	if err != nil {
		err = publicError(ctx, "bookingService.TransitionBooking", err)
		logger.ExitMethodWithError("bookingService.TransitionBooking", err, "bookingID", bookingID, "target", target)
		return nil, err
	}

	logger.ExitMethod("bookingService.TransitionBooking", "bookingID", bookingID, "status", booking.Status)
	return booking, nil
}

// applyTransition validates target against b's current status and the
// transition's own preconditions, then mutates b.
func (s *bookingService) applyTransition(ctx context.Context, uow *unitOfWork, b *domain.Booking, target domain.BookingStatus, reason string) error {
	if !b.Status.CanTransitionTo(target) {
		return &domain.StateTransitionError{From: b.Status, To: target}
	}

	switch target {
	case domain.BookingStatusCancelled:
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return fmt.Errorf("%w: cancel reason is required", domain.ErrInvalidArgument)
		}
		now := s.policy.Now().UTC()
		b.CancelledAt = &now
		b.CancelReason = reason
	case domain.BookingStatusCheckedIn:
		if s.policy.EnforceCheckInDate {
			property, err := uow.Properties().Current(ctx)
			if err != nil {
				return err
			}
			if property.Today(s.policy.Now()).Before(b.CheckIn) {
				return &domain.StateTransitionError{From: b.Status, To: target, Reason: "check-in date " + utils.FormatDate(b.CheckIn) + " not reached"}
			}
		}
	}

	b.Status = target
	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, propertyID, bookingID int64) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.run.read(ctx, propertyID, func(ctx context.Context, tx repository.Tx) error {
		var err error
		booking, err = tx.Bookings().GetByID(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, publicError(ctx, "bookingService.GetBooking", err)
	}
	return booking, nil
}

func (s *bookingService) MarkNoShows(ctx context.Context, propertyID int64, now time.Time) ([]int64, error) {
	logger.EnterMethod("bookingService.MarkNoShows", "propertyID", propertyID)

	var marked []int64
	err := s.run.write(ctx, propertyID, func(ctx context.Context, uow *unitOfWork) error {
		marked = nil
		property, err := uow.Properties().Current(ctx)
		if err != nil {
			return err
		}
		cutoff := property.Today(now).AddDate(0, 0, -s.policy.NoShowGraceDays)
		expired, err := uow.Bookings().ListExpiredUnarrived(ctx, cutoff)
		if err != nil {
			return err
		}
		for i := range expired {
			b := &expired[i]
			if err := s.applyTransition(ctx, uow, b, domain.BookingStatusNoShow, ""); err != nil {
				return err
			}
			if err := uow.Bookings().Update(ctx, b); err != nil {
				return err
			}
			uow.touchGuest(b.GuestID)
			marked = append(marked, b.ID)
		}
		return nil
	})
	if err != nil {
		err = publicError(ctx, "bookingService.MarkNoShows", err)
		logger.ExitMethodWithError("bookingService.MarkNoShows", err, "propertyID", propertyID)
		return nil, err
	}

	logger.ExitMethod("bookingService.MarkNoShows", "propertyID", propertyID, "count", len(marked))
	return marked, nil
}

func validateOccupancy(adults, children int32) error {
	if adults < 1 || children < 0 {
		return fmt.Errorf("%w: a booking needs at least one adult", domain.ErrInvalidArgument)
	}
	return nil
}

func applyPatch(b *domain.Booking, p domain.BookingPatch) {
	if p.RoomID != nil {
		b.RoomID = *p.RoomID
	}
	if p.GuestID != nil {
		b.GuestID = *p.GuestID
	}
	if p.CheckIn != nil {
		b.CheckIn = *p.CheckIn
	}
	if p.CheckOut != nil {
		b.CheckOut = *p.CheckOut
	}
	if p.Adults != nil {
		b.Adults = *p.Adults
	}
	if p.Children != nil {
		b.Children = *p.Children
	}
	if p.TotalAmount != nil {
		b.TotalAmount = *p.TotalAmount
	}
	if p.Notes != nil {
		b.Notes = strings.TrimSpace(*p.Notes)
	}
}

// patchChangesStay reports whether the patch touches anything but notes.
func patchChangesStay(p domain.BookingPatch) bool {
	return p.MovesStay() || p.GuestID != nil || p.Adults != nil || p.Children != nil || p.TotalAmount != nil
}
