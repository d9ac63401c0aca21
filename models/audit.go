package models

import "time"

// AuditAction names an engine-level override that destroyed or replaced calendar state.
type AuditAction string

const (
	AuditBlockDiscardedEvents AuditAction = "block_discarded_events"
	AuditEventOverrodeBlock   AuditAction = "event_overrode_block"
)

// CalendarAudit records one override decision.
type CalendarAudit struct {
	ID              string          `bson:"id" json:"id"`
	Action          AuditAction     `bson:"action" json:"action"`
	ServiceID       string          `bson:"serviceId" json:"serviceId"`
	YearMonth       string          `bson:"yearMonth" json:"yearMonth"`
	DateKey         string          `bson:"dateKey" json:"dateKey"`
	PreviousStatus  DayStatus       `bson:"previousStatus" json:"previousStatus"`
	DiscardedEvents []CalendarEvent `bson:"discardedEvents,omitempty" json:"discardedEvents,omitempty"`
	Actor           string          `bson:"actor,omitempty" json:"actor,omitempty"`
	Reason          string          `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
}
