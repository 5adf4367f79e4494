package planner

import "errors"

var (
	ErrMalformedRecord  = errors.New("malformed record")
	ErrInvalidTask      = errors.New("invalid task")
	ErrInvalidReminder  = errors.New("invalid reminder")
	ErrTaskNotFound     = errors.New("task not found")
	ErrReminderNotFound = errors.New("reminder not found")
	ErrInvalidPlan      = errors.New("invalid study plan")
	ErrTimerRunning     = errors.New("timer is running")
)
