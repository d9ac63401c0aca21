// File: handlers/calendar.go
package handlers

import (
	"net/http"

	"bookingcal/models"
	"bookingcal/services/availability"
	"bookingcal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CalendarHandler exposes a service's calendar to its vendor.
type CalendarHandler struct {
	Service availability.AvailabilityService
}

func NewCalendarHandler(svc availability.AvailabilityService) *CalendarHandler {
	return &CalendarHandler{Service: svc}
}

type serviceRefBody struct {
	VendorID string `json:"vendorId"`
	CityID   string `json:"cityId"`
	Category string `json:"category"`
}

func (b serviceRefBody) ref(serviceID string) models.ServiceRef {
	return models.ServiceRef{ServiceID: serviceID, VendorID: b.VendorID, CityID: b.CityID, Category: b.Category}
}

type blockRequest struct {
	serviceRefBody
	Reason        string `json:"reason"`
	DiscardEvents bool   `json:"discardEvents"`
}

type addEventRequest struct {
	serviceRefBody
	OverrideBlocked bool                 `json:"overrideBlocked"`
	Event           models.CalendarEvent `json:"event"`
}

// GetMonthHandler returns the month document; null means the whole month is available.
func (h *CalendarHandler) GetMonthHandler(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}
	doc, err := h.Service.QueryAvailability(c.Request.Context(), c.Param("serviceID"), month)
	if err != nil {
		respondError(c, "Failed to load calendar", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"yearMonth": models.YearMonth(month), "availability": doc})
}

// InitMonthHandler creates an empty month document if none exists.
func (h *CalendarHandler) InitMonthHandler(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}
	var body serviceRefBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
			return
		}
	}
	if err := h.Service.Initialize(c.Request.Context(), body.ref(c.Param("serviceID")), month); err != nil {
		respondError(c, "Failed to initialize calendar", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Calendar month ready", "yearMonth": models.YearMonth(month)})
}

func (h *CalendarHandler) DateAvailabilityHandler(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	available, err := h.Service.IsDateAvailable(c.Request.Context(), c.Param("serviceID"), date)
	if err != nil {
		respondError(c, "Failed to check availability", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": models.DateKey(date), "available": available})
}

func (h *CalendarHandler) BlockDateHandler(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	var req blockRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
			return
		}
	}

	opts := availability.BlockOptions{DiscardEvents: req.DiscardEvents, Reason: req.Reason, Actor: actorFrom(c)}
	if err := h.Service.BlockDate(c.Request.Context(), req.ref(c.Param("serviceID")), date, opts); err != nil {
		respondError(c, "Failed to block date", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Date blocked", "date": models.DateKey(date)})
}

func (h *CalendarHandler) UnblockDateHandler(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	if err := h.Service.UnblockDate(c.Request.Context(), c.Param("serviceID"), date); err != nil {
		respondError(c, "Failed to unblock date", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Date available", "date": models.DateKey(date)})
}

// AddEventHandler books the date. A missing event id is generated.
func (h *CalendarHandler) AddEventHandler(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	var req addEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if req.Event.ID == "" {
		req.Event.ID = uuid.New().String()
	}

	opts := availability.AddEventOptions{OverrideBlocked: req.OverrideBlocked, Actor: actorFrom(c)}
	event, err := h.Service.AddEvent(c.Request.Context(), req.ref(c.Param("serviceID")), date, req.Event, opts)
	if err != nil {
		respondError(c, "Failed to add event", err)
		return
	}
	getLogger(c).Info("Event booked", zap.String("date", models.DateKey(date)), zap.String("eventId", event.ID))
	c.JSON(http.StatusCreated, gin.H{"date": models.DateKey(date), "event": event})
}

func (h *CalendarHandler) UpdateEventHandler(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	var patch models.EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	event, err := h.Service.UpdateEvent(c.Request.Context(), c.Param("serviceID"), date, c.Param("eventID"), patch)
	if err != nil {
		respondError(c, "Failed to update event", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": models.DateKey(date), "event": event})
}

// RemoveEventHandler removes an event. Callers marked isAdmin by middleware bypass the delete policy.
func (h *CalendarHandler) RemoveEventHandler(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	isAdmin := c.GetBool("isAdmin")
	if err := h.Service.RemoveEvent(c.Request.Context(), c.Param("serviceID"), date, c.Param("eventID"), isAdmin); err != nil {
		respondError(c, "Failed to remove event", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event removed", "date": models.DateKey(date), "eventId": c.Param("eventID")})
}
