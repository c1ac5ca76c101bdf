package service

import (
	"context"
	"fmt"
	"strings"

	"hotelcore/internal/domain"
	"hotelcore/internal/logger"
	"hotelcore/internal/repository"

	"github.com/google/uuid"
)

type ledgerService struct {
	run runner
}

func NewLedgerService(txm repository.TxManager) LedgerService {
	return &ledgerService{run: runner{txm: txm}}
}

// RecordPayment appends a ledger row. Negative amounts are refunds and may not
// take the booking's paid amount below zero. Overpayment is accepted and flagged.
func (s *ledgerService) RecordPayment(ctx context.Context, propertyID, bookingID, amount int64, method domain.PaymentMethod, reference string) (*domain.PaymentResult, error) {
	logger.EnterMethod("ledgerService.RecordPayment", "propertyID", propertyID, "bookingID", bookingID, "amount", amount)

	if amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	if method == "" {
		method = domain.PaymentMethodCash
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidArgument, method)
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		reference = uuid.NewString()
	}

	var result *domain.PaymentResult
	err := s.run.write(ctx, propertyID, func(ctx context.Context, uow *unitOfWork) error {
		booking, err := uow.Bookings().LockByID(ctx, bookingID)
		if err != nil {
			return err
		}
		payment := &domain.Payment{BookingID: booking.ID, Amount: amount, Method: method, Reference: reference}
		if err := uow.Payments().Create(ctx, payment); err != nil {
			return err
		}
		result, err = settle(ctx, uow, booking, payment)
		return err
	})
	if err != nil {
		err = publicError(ctx, "ledgerService.RecordPayment", err)
		logger.ExitMethodWithError("ledgerService.RecordPayment", err, "bookingID", bookingID)
		return nil, err
	}

	if result.Overpaid {
		logger.WarnContext(ctx, "Booking overpaid", "property_id", propertyID, "booking_id", bookingID,
			"paid_amount", result.PaidAmount, "total_amount", result.TotalAmount, "balance", result.Balance)
	}
	logger.ExitMethod("ledgerService.RecordPayment", "paymentID", result.Payment.ID, "paidAmount", result.PaidAmount)
	return result, nil
}

func (s *ledgerService) DeletePayment(ctx context.Context, propertyID, paymentID int64) (*domain.PaymentResult, error) {
	logger.EnterMethod("ledgerService.DeletePayment", "propertyID", propertyID, "paymentID", paymentID)

	var result *domain.PaymentResult
	err := s.run.write(ctx, propertyID, func(ctx context.Context, uow *unitOfWork) error {
		payment, err := uow.Payments().GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		booking, err := uow.Bookings().LockByID(ctx, payment.BookingID)
		if err != nil {
			return err
		}
		if err := uow.Payments().Delete(ctx, paymentID); err != nil {
			return err
		}
		result, err = settle(ctx, uow, booking, payment)
		return err
	})
	if err != nil {
		err = publicError(ctx, "ledgerService.DeletePayment", err)
		logger.ExitMethodWithError("ledgerService.DeletePayment", err, "paymentID", paymentID)
		return nil, err
	}

	logger.ExitMethod("ledgerService.DeletePayment", "paymentID", paymentID, "paidAmount", result.PaidAmount)
	return result, nil
}

// settle recomputes the booking's paid amount inside the unit of work and
// rejects a negative balance of payments.
func settle(ctx context.Context, uow *unitOfWork, booking *domain.Booking, payment *domain.Payment) (*domain.PaymentResult, error) {
	uow.touchBooking(booking.ID)
	if err := uow.flush(ctx); err != nil {
		return nil, err
	}
	paid := uow.paid[booking.ID]
	if paid < 0 {
		return nil, domain.ErrRefundExceedsPaid
	}
	booking.PaidAmount = paid
	balance := booking.Balance()
	return &domain.PaymentResult{
		Payment:     payment,
		PaidAmount:  paid,
		TotalAmount: booking.TotalAmount,
		Balance:     balance,
		Overpaid:    balance < 0,
	}, nil
}

func (s *ledgerService) ListPayments(ctx context.Context, propertyID, bookingID int64) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := s.run.read(ctx, propertyID, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.Bookings().GetByID(ctx, bookingID); err != nil {
			return err
		}
		var err error
		payments, err = tx.Payments().ListByBooking(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, publicError(ctx, "ledgerService.ListPayments", err)
	}
	return payments, nil
}

func (s *ledgerService) RecomputeBookingPaidAmount(ctx context.Context, propertyID, bookingID int64) (int64, error) {
	var paid int64
	err := s.run.write(ctx, propertyID, func(ctx context.Context, uow *unitOfWork) error {
		uow.touchBooking(bookingID)
		if err := uow.flush(ctx); err != nil {
			return err
		}
		paid = uow.paid[bookingID]
		return nil
	})
	if err != nil {
		return 0, publicError(ctx, "ledgerService.RecomputeBookingPaidAmount", err)
	}
	return paid, nil
}

func (s *ledgerService) RecomputeGuestAggregates(ctx context.Context, propertyID, guestID int64) (*domain.GuestAggregates, error) {
	var agg domain.GuestAggregates
	err := s.run.write(ctx, propertyID, func(ctx context.Context, uow *unitOfWork) error {
		uow.touchGuest(guestID)
		if err := uow.flush(ctx); err != nil {
			return err
		}
		agg = uow.aggs[guestID]
		return nil
	})
	if err != nil {
		return nil, publicError(ctx, "ledgerService.RecomputeGuestAggregates", err)
	}
	return &agg, nil
}

// ReconcileProperty recomputes every derived field of the property.
func (s *ledgerService) ReconcileProperty(ctx context.Context, propertyID int64) (*ReconcileReport, error) {
	logger.EnterMethod("ledgerService.ReconcileProperty", "propertyID", propertyID)

	report := &ReconcileReport{PropertyID: propertyID}
	err := s.run.write(ctx, propertyID, func(ctx context.Context, uow *unitOfWork) error {
		bookingIDs, err := uow.Bookings().ListIDs(ctx)
		if err != nil {
			return err
		}
		guestIDs, err := uow.Guests().ListIDs(ctx)
		if err != nil {
			return err
		}
		for _, id := range bookingIDs {
			uow.touchBooking(id)
		}
		for _, id := range guestIDs {
			uow.touchGuest(id)
		}
		report.Bookings, report.Guests = len(bookingIDs), len(guestIDs)
		return nil
	})
	if err != nil {
		err = publicError(ctx, "ledgerService.ReconcileProperty", err)
		logger.ExitMethodWithError("ledgerService.ReconcileProperty", err, "propertyID", propertyID)
		return nil, err
	}

	logger.ExitMethod("ledgerService.ReconcileProperty", "propertyID", propertyID, "bookings", report.Bookings, "guests", report.Guests)
	return report, nil
}

func validMethod(m domain.PaymentMethod) bool {
	switch m {
	case domain.PaymentMethodCash, domain.PaymentMethodCard, domain.PaymentMethodTransfer,
		domain.PaymentMethodOnline, domain.PaymentMethodOther:
		return true
	}
	return false
}
