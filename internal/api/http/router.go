package http

import (
	"net/http"

	"hotelcore/internal/security"
	"hotelcore/internal/service"

	"github.com/gorilla/mux"
)

// Services groups the core services exposed over HTTP.
type Services struct {
	Availability service.AvailabilityService
	Pricing      service.PricingService
	Booking      service.BookingService
	Guest        service.GuestService
	Ledger       service.LedgerService
}

// NewRouter registers every route by name. Names key the route security table.
func NewRouter(svcs Services, tm security.TokenManager) *mux.Router {
	h := &handler{svcs: svcs}
	auth := NewAuthMiddleware(tm)

	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, auth.Handler)

	router.HandleFunc("/healthz", h.health).Methods("GET").Name("Health")

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/rooms/{roomID:[0-9]+}/availability", h.checkAvailability).Methods("GET").Name("CheckAvailability")
	api.HandleFunc("/availability", h.availableRooms).Methods("GET").Name("AvailableRooms")
	api.HandleFunc("/rooms/{roomID:[0-9]+}/blocks", h.createRoomBlock).Methods("POST").Name("CreateRoomBlock")
	api.HandleFunc("/room-blocks/{blockID:[0-9]+}", h.deleteRoomBlock).Methods("DELETE").Name("DeleteRoomBlock")
	api.HandleFunc("/rooms/{roomID:[0-9]+}/quote", h.priceStay).Methods("GET").Name("PriceStay")

	api.HandleFunc("/guests", h.createGuest).Methods("POST").Name("CreateGuest")
	api.HandleFunc("/guests/{guestID:[0-9]+}", h.getGuest).Methods("GET").Name("GetGuest")

	api.HandleFunc("/bookings", h.createBooking).Methods("POST").Name("CreateBooking")
	api.HandleFunc("/bookings/{bookingID:[0-9]+}", h.getBooking).Methods("GET").Name("GetBooking")
	api.HandleFunc("/bookings/{bookingID:[0-9]+}", h.updateBooking).Methods("PATCH").Name("UpdateBooking")
	api.HandleFunc("/bookings/{bookingID:[0-9]+}/transitions", h.transitionBooking).Methods("POST").Name("TransitionBooking")

	api.HandleFunc("/bookings/{bookingID:[0-9]+}/payments", h.recordPayment).Methods("POST").Name("RecordPayment")
	api.HandleFunc("/bookings/{bookingID:[0-9]+}/payments", h.listPayments).Methods("GET").Name("ListPayments")
	api.HandleFunc("/payments/{paymentID:[0-9]+}", h.deletePayment).Methods("DELETE").Name("DeletePayment")
	api.HandleFunc("/ledger/reconcile", h.reconcile).Methods("POST").Name("ReconcileLedger")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	return router
}
