package planner

import (
	"time"

	"github.com/TWRT/savvystudy/internal/models"
)

const (
	ReminderTitle   = "Reminder"
	ReminderTimeout = 10 * time.Second
)

func ReminderMessage(task string) string {
	return "Time to work on: " + task
}

// CheckReminders splits reminders into the ones whose moment is at or before
// now and the ones still pending. Reminder dates are read in now's location.
// The input slice is never modified; remaining is always a fresh slice.
func CheckReminders(now time.Time, reminders []models.Reminder) (fired, remaining []models.Reminder) {
	remaining = make([]models.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if now.Before(r.At(now.Location())) {
			remaining = append(remaining, r)
			continue
		}
		fired = append(fired, r)
	}
	return fired, remaining
}

func ReminderNotification(userID string, r models.Reminder, now time.Time) models.Notification {
	return models.Notification{
		UserID:    userID,
		Title:     ReminderTitle,
		Message:   ReminderMessage(r.Task),
		Timeout:   ReminderTimeout,
		CreatedAt: now,
	}
}
