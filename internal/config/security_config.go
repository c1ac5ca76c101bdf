// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token with a property claim required
)

// RouteSecurityConfig maps HTTP route names to their required security level.
// Routes not listed require SecurityAccess.
var RouteSecurityConfig = map[string]SecurityLevel{
	"Health": SecurityPublic,

	"CheckAvailability": SecurityAccess,
	"AvailableRooms":    SecurityAccess,
	"CreateRoomBlock":   SecurityAccess,
	"DeleteRoomBlock":   SecurityAccess,
	"PriceStay":         SecurityAccess,

	"CreateGuest": SecurityAccess,
	"GetGuest":    SecurityAccess,

	"CreateBooking":     SecurityAccess,
	"GetBooking":        SecurityAccess,
	"UpdateBooking":     SecurityAccess,
	"TransitionBooking": SecurityAccess,

	"RecordPayment":   SecurityAccess,
	"ListPayments":    SecurityAccess,
	"DeletePayment":   SecurityAccess,
	"ReconcileLedger": SecurityAccess,
}

// RouteSecurity returns the level required by a named route
func RouteSecurity(name string) SecurityLevel {
	if level, ok := RouteSecurityConfig[name]; ok {
		return level
	}
	return SecurityAccess
}
