// File: handlers/bookings.go
package handlers

import (
	"mime"
	"net/http"
	"time"

	"bookingcal/models"
	"bookingcal/services/reservations"
	"bookingcal/utils"

	"github.com/gin-gonic/gin"
	"github.com/juju/clock"
)

// BookingsHandler serves the dashboard reservation listings.
type BookingsHandler struct {
	Reader    reservations.AvailabilityReader
	Clock     clock.Clock
	ProductID string
}

func NewBookingsHandler(reader reservations.AvailabilityReader, clk clock.Clock) *BookingsHandler {
	return &BookingsHandler{Reader: reader, Clock: clk, ProductID: "-//bookingcal//calendar//EN"}
}

// loadWindow reads the three-month window around ?ref (default today).
func (h *BookingsHandler) loadWindow(c *gin.Context) ([]models.Reservation, bool) {
	ref, ok := optionalDateQuery(c, "ref")
	if !ok {
		return nil, false
	}
	if ref.IsZero() {
		ref = h.Clock.Now()
	}
	entries, err := reservations.LoadWindow(c.Request.Context(), h.Reader,
		c.Param("serviceID"), c.Query("serviceName"), c.Query("category"), ref)
	if err != nil {
		respondError(c, "Failed to load reservations", err)
		return nil, false
	}
	return entries, true
}

// ListReservationsHandler lists the window filtered by month, year, start, end and status.
func (h *BookingsHandler) ListReservationsHandler(c *gin.Context) {
	entries, ok := h.loadWindow(c)
	if !ok {
		return
	}
	month, ok := optionalIntQuery(c, "month", 0, 0, 12)
	if !ok {
		return
	}
	year, ok := optionalIntQuery(c, "year", 0, 0, 9999)
	if !ok {
		return
	}
	start, ok := optionalDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := optionalDateQuery(c, "end")
	if !ok {
		return
	}

	entries = reservations.FilterByMonthYear(entries, month, year)
	entries = reservations.FilterByDateRange(entries, start, end)
	switch status := models.DayStatus(c.Query("status")); status {
	case "":
	case models.DayBooked, models.DayBlocked:
		entries = reservations.FilterByStatus(entries, status)
	default:
		utils.JSONError(c, http.StatusBadRequest, "Invalid status", "status must be booked or blocked")
		return
	}

	switch c.DefaultQuery("order", "asc") {
	case "asc":
		entries = reservations.SortReservations(entries, true)
	case "desc":
		entries = reservations.SortReservations(entries, false)
	default:
		utils.JSONError(c, http.StatusBadRequest, "Invalid order", "order must be asc or desc")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": entries, "count": len(entries)})
}

// UpcomingHandler returns the next ?count booked dates, today included.
func (h *BookingsHandler) UpcomingHandler(c *gin.Context) {
	count, ok := optionalIntQuery(c, "count", 5, 0, 100)
	if !ok {
		return
	}
	entries, ok := h.loadWindow(c)
	if !ok {
		return
	}
	booked := reservations.FilterByStatus(entries, models.DayBooked)
	upcoming := reservations.GetUpcomingReservations(booked, h.Clock.Now(), count)
	c.JSON(http.StatusOK, gin.H{"reservations": upcoming, "count": len(upcoming)})
}

func (h *BookingsHandler) YearsHandler(c *gin.Context) {
	entries, ok := h.loadWindow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": reservations.ExtractUniqueYears(entries)})
}

// CalendarICSHandler exports the window as an iCalendar feed.
func (h *BookingsHandler) CalendarICSHandler(c *gin.Context) {
	entries, ok := h.loadWindow(c)
	if !ok {
		return
	}
	body, err := reservations.ExportICS(entries, h.ProductID)
	if err != nil {
		respondError(c, "Failed to export calendar", err)
		return
	}
	c.Header("Content-Disposition", icsDisposition(c.Param("serviceID"), h.Clock.Now()))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}

// icsDisposition names the download after the service and export day, quoting the service ID.
func icsDisposition(serviceID string, at time.Time) string {
	return mime.FormatMediaType("attachment", map[string]string{
		"filename": serviceID + "-" + at.Format("20060102") + ".ics",
	})
}
