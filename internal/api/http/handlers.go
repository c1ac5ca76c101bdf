package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hotelcore/internal/domain"
	"hotelcore/internal/service"
	"hotelcore/internal/tenant"
	"hotelcore/internal/utils"

	"github.com/gorilla/mux"
)

type handler struct {
	svcs Services
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Availability

func (h *handler) checkAvailability(w http.ResponseWriter, r *http.Request) {
	roomID := pathID(r, "roomID")
	checkIn, checkOut, err := queryStay(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var exclude *int64
	if raw := r.URL.Query().Get("exclude_booking_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, badRequest("exclude_booking_id", err))
			return
		}
		exclude = &id
	}

	ok, err := h.svcs.Availability.CheckAvailability(r.Context(), tenant.Current(r.Context()), roomID, checkIn, checkOut, exclude)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": ok})
}

func (h *handler) availableRooms(w http.ResponseWriter, r *http.Request) {
	checkIn, checkOut, err := queryStay(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rooms, err := h.svcs.Availability.AvailableRooms(r.Context(), tenant.Current(r.Context()), checkIn, checkOut)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

type roomBlockRequest struct {
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	Reason   string `json:"reason"`
}

func (h *handler) createRoomBlock(w http.ResponseWriter, r *http.Request) {
	var req roomBlockRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	from, to, err := parseStay(req.DateFrom, req.DateTo)
	if err != nil {
		writeError(w, err)
		return
	}
	block, err := h.svcs.Availability.CreateRoomBlock(r.Context(), tenant.Current(r.Context()), pathID(r, "roomID"), from, to, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, block)
}

func (h *handler) deleteRoomBlock(w http.ResponseWriter, r *http.Request) {
	if err := h.svcs.Availability.DeleteRoomBlock(r.Context(), tenant.Current(r.Context()), pathID(r, "blockID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) priceStay(w http.ResponseWriter, r *http.Request) {
	checkIn, checkOut, err := queryStay(r)
	if err != nil {
		writeError(w, err)
		return
	}
	quote, err := h.svcs.Pricing.PriceStay(r.Context(), tenant.Current(r.Context()), pathID(r, "roomID"), checkIn, checkOut)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// Guests

func (h *handler) createGuest(w http.ResponseWriter, r *http.Request) {
	var guest domain.Guest
	if err := decode(r, &guest); err != nil {
		writeError(w, err)
		return
	}
	// Aggregates are derived; a client cannot seed them.
	guest.ID, guest.TotalRevenue, guest.VisitCount = 0, 0, 0
	if err := h.svcs.Guest.CreateGuest(r.Context(), tenant.Current(r.Context()), &guest); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, guest)
}

func (h *handler) getGuest(w http.ResponseWriter, r *http.Request) {
	guest, err := h.svcs.Guest.GetGuest(r.Context(), tenant.Current(r.Context()), pathID(r, "guestID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guest)
}

// Bookings

type createBookingRequest struct {
	RoomID      int64                `json:"room_id"`
	GuestID     int64                `json:"guest_id"`
	CheckIn     string               `json:"check_in"`
	CheckOut    string               `json:"check_out"`
	Adults      int32                `json:"adults"`
	Children    int32                `json:"children"`
	Source      domain.BookingSource `json:"source"`
	Notes       string               `json:"notes"`
	TotalAmount *int64               `json:"total_amount"`
}

func (h *handler) createBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.svcs.Booking.CreateBooking(r.Context(), service.CreateBookingInput{
		PropertyID:          tenant.Current(r.Context()),
		RoomID:              req.RoomID,
		GuestID:             req.GuestID,
		CheckIn:             checkIn,
		CheckOut:            checkOut,
		Adults:              req.Adults,
		Children:            req.Children,
		Source:              req.Source,
		Notes:               req.Notes,
		TotalAmountOverride: req.TotalAmount,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *handler) getBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.svcs.Booking.GetBooking(r.Context(), tenant.Current(r.Context()), pathID(r, "bookingID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type updateBookingRequest struct {
	RoomID      *int64  `json:"room_id"`
	GuestID     *int64  `json:"guest_id"`
	CheckIn     *string `json:"check_in"`
	CheckOut    *string `json:"check_out"`
	Adults      *int32  `json:"adults"`
	Children    *int32  `json:"children"`
	TotalAmount *int64  `json:"total_amount"`
	Notes       *string `json:"notes"`
}

func (req updateBookingRequest) patch() (domain.BookingPatch, error) {
	p := domain.BookingPatch{
		RoomID:      req.RoomID,
		GuestID:     req.GuestID,
		Adults:      req.Adults,
		Children:    req.Children,
		TotalAmount: req.TotalAmount,
		Notes:       req.Notes,
	}
	if req.CheckIn != nil {
		d, err := utils.ParseDate(*req.CheckIn)
		if err != nil {
			return p, err
		}
		p.CheckIn = &d
	}
	if req.CheckOut != nil {
		d, err := utils.ParseDate(*req.CheckOut)
		if err != nil {
			return p, err
		}
		p.CheckOut = &d
	}
	return p, nil
}

func (h *handler) updateBooking(w http.ResponseWriter, r *http.Request) {
	var req updateBookingRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.svcs.Booking.UpdateBooking(r.Context(), tenant.Current(r.Context()), pathID(r, "bookingID"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type transitionRequest struct {
	Status domain.BookingStatus `json:"status"`
	Reason string               `json:"reason"`
}

func (h *handler) transitionBooking(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.svcs.Booking.TransitionBooking(r.Context(), tenant.Current(r.Context()), pathID(r, "bookingID"), req.Status, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Ledger

type paymentRequest struct {
	Amount    int64                `json:"amount"`
	Method    domain.PaymentMethod `json:"method"`
	Reference string               `json:"reference"`
}

func (h *handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.svcs.Ledger.RecordPayment(r.Context(), tenant.Current(r.Context()), pathID(r, "bookingID"), req.Amount, req.Method, req.Reference)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *handler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svcs.Ledger.ListPayments(r.Context(), tenant.Current(r.Context()), pathID(r, "bookingID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payments": payments})
}

func (h *handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	res, err := h.svcs.Ledger.DeletePayment(r.Context(), tenant.Current(r.Context()), pathID(r, "paymentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.svcs.Ledger.ReconcileProperty(r.Context(), tenant.Current(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Request parsing

// pathID reads a numeric path variable. The route pattern guarantees digits.
func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("body", err)
	}
	return nil
}

func queryStay(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	return parseStay(q.Get("check_in"), q.Get("check_out"))
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := utils.ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := utils.ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}

func badRequest(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrInvalidArgument, field, err)
}
