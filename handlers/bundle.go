// File: handlers/bundle.go
package handlers

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Calendar *CalendarHandler
	Bookings *BookingsHandler
	Admin    *AdminHandler

	AdminToken        string
	MaxRequestsPerMin int
}
