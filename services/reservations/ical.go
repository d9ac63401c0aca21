package reservations

import (
	"bytes"
	"fmt"
	"strings"

	"bookingcal/models"

	"github.com/emersion/go-ical"
)

// ExportICS renders entries as an iCalendar feed. Every booking becomes an all-day
// VEVENT; a blocked day becomes one "Blocked" VEVENT.
func ExportICS(entries []models.Reservation, productID string) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	for _, r := range entries {
		switch r.Status {
		case models.DayBlocked:
			ev := allDayEvent(r, fmt.Sprintf("%s-%s-blocked@bookingcal", r.ServiceID, r.DateKey))
			ev.Props.SetText(ical.PropSummary, "Blocked")
			if r.BlockReason != "" {
				ev.Props.SetText(ical.PropDescription, r.BlockReason)
			}
			ev.Props.SetText(ical.PropTransparency, "OPAQUE")
			cal.Children = append(cal.Children, ev.Component)
		case models.DayBooked:
			for _, e := range r.Events {
				ev := allDayEvent(r, fmt.Sprintf("%s-%s-%s@bookingcal", r.ServiceID, r.DateKey, e.ID))
				if !e.CreatedAt.IsZero() {
					ev.Props.SetDateTime(ical.PropDateTimeStamp, e.CreatedAt.UTC())
				}
				ev.Props.SetText(ical.PropSummary, e.Title)
				ev.Props.SetText(ical.PropDescription, describe(r, e))
				ev.Props.SetText(ical.PropStatus, "CONFIRMED")
				if e.EventType != "" {
					ev.Props.SetText(ical.PropCategories, e.EventType)
				}
				if e.CustomerAddress != "" {
					ev.Props.SetText(ical.PropLocation, e.CustomerAddress)
				}
				cal.Children = append(cal.Children, ev.Component)
			}
		}
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func allDayEvent(r models.Reservation, uid string) *ical.Event {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, uid)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, r.Date.UTC())
	ev.Props.SetDate(ical.PropDateTimeStart, r.Date)
	ev.Props.SetDate(ical.PropDateTimeEnd, r.Date.AddDate(0, 0, 1))
	return ev
}

func describe(r models.Reservation, e models.CalendarEvent) string {
	lines := []string{fmt.Sprintf("%s %s-%s", r.ServiceName, e.StartTime, e.EndTime)}
	if e.CustomerName != "" {
		lines = append(lines, "Customer: "+e.CustomerName)
	}
	if e.CustomerPhone != "" {
		lines = append(lines, "Phone: "+e.CustomerPhone)
	}
	if e.Notes != "" {
		lines = append(lines, e.Notes)
	}
	return strings.Join(lines, "\n")
}
