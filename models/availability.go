package models

import (
	"fmt"
	"time"
)

const (
	// DateKeyLayout formats a calendar day key, e.g. "2024-03-15".
	DateKeyLayout = "2006-01-02"
	// YearMonthLayout formats a month document key, e.g. "2024-03".
	YearMonthLayout = "2006-01"
	// EventTimeLayout formats event start/end times, e.g. "14:30".
	EventTimeLayout = "15:04"
)

// DayStatus is the stored state of a calendar day. Available days are never stored.
type DayStatus string

const (
	DayBlocked DayStatus = "blocked"
	DayBooked  DayStatus = "booked"
)

// DeletePolicy decides who may remove an event. It is fixed when the event is created.
type DeletePolicy string

const (
	DeleteOpen              DeletePolicy = "open"              // vendor or admin may remove
	DeleteAdminOnly         DeletePolicy = "adminOnly"         // locked by the vendor; admin only
	DeleteCustomerProtected DeletePolicy = "customerProtected" // customer booking; admin only
)

// Valid reports whether p is a known policy.
func (p DeletePolicy) Valid() bool {
	switch p {
	case DeleteOpen, DeleteAdminOnly, DeleteCustomerProtected:
		return true
	}
	return false
}

// AllowsRemoval reports whether an event with this policy may be removed by the caller.
func (p DeletePolicy) AllowsRemoval(isAdmin bool) bool {
	return isAdmin || p == DeleteOpen
}

// ServiceRef carries the service identity supplied by the catalog.
type ServiceRef struct {
	ServiceID string `json:"serviceId" binding:"required"`
	VendorID  string `json:"vendorId"`
	CityID    string `json:"cityId"`
	Category  string `json:"category"`
}

// ServiceAvailability is the per-service, per-month calendar document.
type ServiceAvailability struct {
	// ID is "<serviceId>_<YYYY-MM>".
	ID              string `bson:"id" json:"id" firestore:"id"`
	ServiceID       string `bson:"serviceId" json:"serviceId" firestore:"serviceId"`
	VendorID        string `bson:"vendorId" json:"vendorId" firestore:"vendorId"`
	CityID          string `bson:"cityId" json:"cityId" firestore:"cityId"`
	ServiceCategory string `bson:"serviceCategory" json:"serviceCategory" firestore:"serviceCategory"`
	YearMonth       string `bson:"yearMonth" json:"yearMonth" firestore:"yearMonth"`
	// Calendar maps dateKey to day. An absent key means the date is available.
	Calendar map[string]CalendarDay `bson:"calendar" json:"calendar" firestore:"calendar"`
	// Version is bumped by the store on every write and guards partial updates.
	Version   int64     `bson:"version" json:"version" firestore:"version"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt" firestore:"updatedAt"`
}

// CalendarDay is the status and events stored for one date.
type CalendarDay struct {
	Status      DayStatus       `bson:"status" json:"status" firestore:"status"`
	Events      []CalendarEvent `bson:"events" json:"events" firestore:"events"` // creation order
	BlockReason string          `bson:"blockReason,omitempty" json:"blockReason,omitempty" firestore:"blockReason,omitempty"`
	BlockedAt   *time.Time      `bson:"blockedAt,omitempty" json:"blockedAt,omitempty" firestore:"blockedAt,omitempty"`
}

// CalendarEvent is one booking or occupancy record within a date.
type CalendarEvent struct {
	ID               string       `bson:"id" json:"id" firestore:"id"`
	Title            string       `bson:"title" json:"title" firestore:"title"`
	EventType        string       `bson:"eventType" json:"eventType" firestore:"eventType"`
	StartTime        string       `bson:"startTime" json:"startTime" firestore:"startTime"` // "HH:MM"
	EndTime          string       `bson:"endTime" json:"endTime" firestore:"endTime"`       // "HH:MM"
	CustomerName     string       `bson:"customerName,omitempty" json:"customerName,omitempty" firestore:"customerName,omitempty"`
	CustomerPhone    string       `bson:"customerPhone,omitempty" json:"customerPhone,omitempty" firestore:"customerPhone,omitempty"`
	CustomerAltPhone string       `bson:"customerAltPhone,omitempty" json:"customerAltPhone,omitempty" firestore:"customerAltPhone,omitempty"`
	CustomerAddress  string       `bson:"customerAddress,omitempty" json:"customerAddress,omitempty" firestore:"customerAddress,omitempty"`
	Notes            string       `bson:"notes,omitempty" json:"notes,omitempty" firestore:"notes,omitempty"`
	DeletePolicy     DeletePolicy `bson:"deletePolicy" json:"deletePolicy" firestore:"deletePolicy"`
	CreatedAt        time.Time    `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
}

// EventPatch holds the fields UpdateEvent may change. Nil fields are left untouched.
type EventPatch struct {
	Title            *string `json:"title,omitempty"`
	EventType        *string `json:"eventType,omitempty"`
	StartTime        *string `json:"startTime,omitempty"`
	EndTime          *string `json:"endTime,omitempty"`
	CustomerName     *string `json:"customerName,omitempty"`
	CustomerPhone    *string `json:"customerPhone,omitempty"`
	CustomerAltPhone *string `json:"customerAltPhone,omitempty"`
	CustomerAddress  *string `json:"customerAddress,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

// Apply merges the non-nil fields of the patch into ev.
func (p EventPatch) Apply(ev *CalendarEvent) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&ev.Title, p.Title)
	set(&ev.EventType, p.EventType)
	set(&ev.StartTime, p.StartTime)
	set(&ev.EndTime, p.EndTime)
	set(&ev.CustomerName, p.CustomerName)
	set(&ev.CustomerPhone, p.CustomerPhone)
	set(&ev.CustomerAltPhone, p.CustomerAltPhone)
	set(&ev.CustomerAddress, p.CustomerAddress)
	set(&ev.Notes, p.Notes)
}

// NewServiceAvailability returns an empty month document for ref.
func NewServiceAvailability(ref ServiceRef, yearMonth string, now time.Time) *ServiceAvailability {
	return &ServiceAvailability{
		ID:              AvailabilityDocID(ref.ServiceID, yearMonth),
		ServiceID:       ref.ServiceID,
		VendorID:        ref.VendorID,
		CityID:          ref.CityID,
		ServiceCategory: ref.Category,
		YearMonth:       yearMonth,
		Calendar:        map[string]CalendarDay{},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Clone returns a deep copy of the document.
func (doc *ServiceAvailability) Clone() *ServiceAvailability {
	if doc == nil {
		return nil
	}
	out := *doc
	out.Calendar = make(map[string]CalendarDay, len(doc.Calendar))
	for key, day := range doc.Calendar {
		out.Calendar[key] = day.Clone()
	}
	return &out
}

// Clone returns a copy of the day that shares no slice memory with d.
func (d CalendarDay) Clone() CalendarDay {
	out := d
	out.Events = append([]CalendarEvent{}, d.Events...)
	if d.BlockedAt != nil {
		at := *d.BlockedAt
		out.BlockedAt = &at
	}
	return out
}

// EventIndex returns the position of the event with id, or -1.
func (d CalendarDay) EventIndex(id string) int {
	for i, ev := range d.Events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

// AvailabilityDocID is the storage identity of a month document.
func AvailabilityDocID(serviceID, yearMonth string) string {
	return serviceID + "_" + yearMonth
}

// DateKey formats the calendar date of t.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// YearMonth formats the month of t.
func YearMonth(t time.Time) string {
	return t.Format(YearMonthLayout)
}

// ParseDateKey parses a "YYYY-MM-DD" key at local midnight.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// ParseYearMonth parses a "YYYY-MM" key at local midnight of the first day.
func ParseYearMonth(key string) (time.Time, error) {
	t, err := time.ParseInLocation(YearMonthLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year-month %q: %w", key, err)
	}
	return t, nil
}

// ValidEventTime reports whether s is an "HH:MM" time.
func ValidEventTime(s string) bool {
	if len(s) != len(EventTimeLayout) {
		return false
	}
	_, err := time.Parse(EventTimeLayout, s)
	return err == nil
}
