package models

import "time"

// Reminder is a one-shot notification for a task. TaskID is the stable link;
// Task carries the task name for display and for the stored record.
type Reminder struct {
	ID           string `json:"id"`
	TaskID       string `json:"task_id,omitempty"`
	Task         string `json:"task"`
	ReminderDate Date   `json:"reminder_date"`
	ReminderTime Clock  `json:"reminder_time"`
}

func (r Reminder) At(loc *time.Location) time.Time {
	return Combine(r.ReminderDate, r.ReminderTime, loc)
}
