package models

import "time"

type Notification struct {
	UserID    string        `json:"-"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	Timeout   time.Duration `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

type Progress struct {
	Completed      []Task `json:"completed"`
	Pending        []Task `json:"pending"`
	CompletedCount int    `json:"completed_count"`
	PendingCount   int    `json:"pending_count"`
	AllCompleted   bool   `json:"all_completed"`
}
