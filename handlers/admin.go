// File: handlers/admin.go
package handlers

import (
	"net/http"

	auditRepo "bookingcal/database/repository/audit"

	"github.com/gin-gonic/gin"
)

// AdminHandler encapsulates elevated calendar operations.
type AdminHandler struct {
	Calendar *CalendarHandler
	// AuditRepo is nil when audit entries are only logged.
	AuditRepo auditRepo.CalendarAuditRepository
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(calendar *CalendarHandler, audits auditRepo.CalendarAuditRepository) *AdminHandler {
	return &AdminHandler{Calendar: calendar, AuditRepo: audits}
}

// RemoveEventHandler removes any event regardless of its delete policy.
func (ah *AdminHandler) RemoveEventHandler(c *gin.Context) {
	c.Set("isAdmin", true)
	ah.Calendar.RemoveEventHandler(c)
}

// ListAuditHandler returns the newest override records of a service.
func (ah *AdminHandler) ListAuditHandler(c *gin.Context) {
	if ah.AuditRepo == nil {
		c.JSON(http.StatusOK, gin.H{"entries": []any{}, "persisted": false})
		return
	}
	limit, ok := optionalIntQuery(c, "limit", 50, 1, 500)
	if !ok {
		return
	}
	entries, err := ah.AuditRepo.ListByService(c.Request.Context(), c.Param("serviceID"), int64(limit))
	if err != nil {
		respondError(c, "Failed to fetch calendar audit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "persisted": true})
}
