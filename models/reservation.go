package models

import "time"

// Reservation is a booked or blocked date surfaced to dashboards. It is derived, never stored.
type Reservation struct {
	ServiceID   string          `json:"serviceId"`
	VendorID    string          `json:"vendorId"`
	CityID      string          `json:"cityId"`
	ServiceName string          `json:"serviceName"`
	Category    string          `json:"category"`
	DateKey     string          `json:"dateKey"` // "YYYY-MM-DD"
	Date        time.Time       `json:"date"`    // local midnight of DateKey
	Status      DayStatus       `json:"status"`
	BlockReason string          `json:"blockReason,omitempty"`
	Events      []CalendarEvent `json:"events"`
}
