package tasks

import (
	"bookingcal/models"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeCalendarAudit = "calendar:audit"

func NewCalendarAuditTask(entry models.CalendarAudit) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(entry)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCalendarAudit, b)
	opts := []asynq.Option{asynq.MaxRetry(10)}
	if entry.ID != "" {
		// Re-enqueueing the same entry is rejected by the queue instead of duplicated.
		opts = append(opts, asynq.TaskID(entry.ID))
	}

	return task, opts, nil
}

// ParseCalendarAuditTask decodes the payload written by NewCalendarAuditTask.
func ParseCalendarAuditTask(task *asynq.Task) (models.CalendarAudit, error) {
	var entry models.CalendarAudit
	err := json.Unmarshal(task.Payload(), &entry)
	return entry, err
}
