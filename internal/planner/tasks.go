package planner

import (
	"fmt"
	"slices"
	"strings"

	"github.com/TWRT/savvystudy/internal/models"
	"github.com/google/uuid"
)

type TaskInput struct {
	Name    string
	Type    string
	DueDate models.Date
	DueTime models.Clock
}

func NewTask(in TaskInput) (models.Task, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Task{}, fmt.Errorf("%w: name is required", ErrInvalidTask)
	}
	taskType, err := models.ParseTaskType(in.Type)
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	if in.DueDate.IsZero() {
		return models.Task{}, fmt.Errorf("%w: due_date is required", ErrInvalidTask)
	}

	return models.Task{
		ID:      uuid.NewString(),
		Name:    name,
		Type:    taskType,
		DueDate: in.DueDate,
		DueTime: in.DueTime,
	}, nil
}

// CompleteTask returns a copy of tasks with the task marked complete.
// Completing an already completed task is a no-op.
func CompleteTask(tasks []models.Task, id string) ([]models.Task, error) {
	idx := slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	out := slices.Clone(tasks)
	out[idx].Completed = true
	return out, nil
}

// DeleteTask removes the task and every reminder bound to it.
func DeleteTask(tasks []models.Task, reminders []models.Reminder, id string) ([]models.Task, []models.Reminder, error) {
	if !slices.ContainsFunc(tasks, func(t models.Task) bool { return t.ID == id }) {
		return nil, nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	keptTasks := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			keptTasks = append(keptTasks, t)
		}
	}
	keptReminders := make([]models.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if r.TaskID != id {
			keptReminders = append(keptReminders, r)
		}
	}
	return keptTasks, keptReminders, nil
}

type ReminderInput struct {
	TaskID       string
	ReminderDate models.Date
	ReminderTime models.Clock
}

func NewReminder(tasks []models.Task, in ReminderInput) (models.Reminder, error) {
	idx := slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == in.TaskID })
	if idx < 0 {
		return models.Reminder{}, fmt.Errorf("%w: %s", ErrTaskNotFound, in.TaskID)
	}
	if in.ReminderDate.IsZero() {
		return models.Reminder{}, fmt.Errorf("%w: reminder_date is required", ErrInvalidReminder)
	}

	return models.Reminder{
		ID:           uuid.NewString(),
		TaskID:       tasks[idx].ID,
		Task:         tasks[idx].Name,
		ReminderDate: in.ReminderDate,
		ReminderTime: in.ReminderTime,
	}, nil
}

func DeleteReminder(reminders []models.Reminder, id string) ([]models.Reminder, error) {
	if !slices.ContainsFunc(reminders, func(r models.Reminder) bool { return r.ID == id }) {
		return nil, fmt.Errorf("%w: %s", ErrReminderNotFound, id)
	}
	out := make([]models.Reminder, 0, len(reminders)-1)
	for _, r := range reminders {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out, nil
}
