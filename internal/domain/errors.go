package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDateRange       = errors.New("check-out must be after check-in")
	ErrRoomNotAvailable       = errors.New("room is not available for the requested dates")
	ErrInvalidStateTransition = errors.New("invalid booking state transition")
	ErrRefundExceedsPaid      = errors.New("refund exceeds the amount paid")
	ErrGuestNotFound          = errors.New("guest not found")
	ErrRoomNotFound           = errors.New("room not found")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrRoomBlockNotFound      = errors.New("room block not found")
	ErrPropertyNotFound       = errors.New("property not found")
	ErrTenantMismatch         = errors.New("resource belongs to another property")
	ErrConcurrencyConflict    = errors.New("concurrent modification, retry the request")
	ErrInvalidAmount          = errors.New("amount must be non-zero")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrInternal               = errors.New("internal error")
)

// StateTransitionError reports a rejected booking transition.
type StateTransitionError struct {
	From   BookingStatus
	To     BookingStatus
	Reason string
}

func (e *StateTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot move booking from %s to %s: %s", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("cannot move booking from %s to %s", e.From, e.To)
}

func (e *StateTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrInvalidDateRange, "INVALID_DATE_RANGE"},
	{ErrRoomNotAvailable, "ROOM_NOT_AVAILABLE"},
	{ErrInvalidStateTransition, "INVALID_STATE_TRANSITION"},
	{ErrRefundExceedsPaid, "REFUND_EXCEEDS_PAID"},
	{ErrGuestNotFound, "GUEST_NOT_FOUND"},
	{ErrRoomNotFound, "ROOM_NOT_FOUND"},
	{ErrBookingNotFound, "BOOKING_NOT_FOUND"},
	{ErrPaymentNotFound, "PAYMENT_NOT_FOUND"},
	{ErrRoomBlockNotFound, "ROOM_BLOCK_NOT_FOUND"},
	{ErrPropertyNotFound, "PROPERTY_NOT_FOUND"},
	{ErrTenantMismatch, "TENANT_MISMATCH"},
	{ErrConcurrencyConflict, "CONCURRENCY_CONFLICT"},
	{ErrInvalidAmount, "INVALID_AMOUNT"},
	{ErrInvalidArgument, "INVALID_ARGUMENT"},
}

// ErrorCode maps an error to the stable code surfaced to API callers.
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "INTERNAL"
}
