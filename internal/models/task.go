package models

import (
	"fmt"
	"strings"
	"time"
)

type TaskType string

const (
	TaskTypeAssignment   TaskType = "Assignment"
	TaskTypeStudySession TaskType = "Study Session"
	TaskTypeExam         TaskType = "Exam"
)

var TaskTypes = []TaskType{TaskTypeAssignment, TaskTypeStudySession, TaskTypeExam}

// ParseTaskType accepts the display names, ignoring case and inner spaces,
// so "StudySession" and "study session" both resolve.
func ParseTaskType(s string) (TaskType, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for _, t := range TaskTypes {
		if strings.ToLower(strings.ReplaceAll(string(t), " ", "")) == key {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown task type %q", s)
}

type Task struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      TaskType `json:"type"`
	DueDate   Date     `json:"due_date"`
	DueTime   Clock    `json:"due_time"`
	Completed bool     `json:"completed"`
}

func (t Task) Due(loc *time.Location) time.Time {
	return Combine(t.DueDate, t.DueTime, loc)
}
