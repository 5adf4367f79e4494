package planner

import (
	"errors"
	"testing"

	"github.com/TWRT/savvystudy/internal/models"
)

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: "a", Name: "Essay", Type: models.TaskTypeAssignment, DueDate: models.Date{Year: 2024, Month: 1, Day: 1}},
		{ID: "b", Name: "Essay", Type: models.TaskTypeAssignment, DueDate: models.Date{Year: 2024, Month: 1, Day: 2}},
		{ID: "c", Name: "Final", Type: models.TaskTypeExam, DueDate: models.Date{Year: 2024, Month: 1, Day: 3}},
	}
}

func TestNewTaskValidation(t *testing.T) {
	date := models.Date{Year: 2024, Month: 6, Day: 1}

	task, err := NewTask(TaskInput{Name: "  Lab report ", Type: "assignment", DueDate: date})
	if err != nil {
		t.Fatalf("NewTask failed: %v", err)
	}
	if task.Name != "Lab report" || task.Type != models.TaskTypeAssignment || task.ID == "" || task.Completed {
		t.Errorf("Unexpected task %+v", task)
	}

	if _, err := NewTask(TaskInput{Name: "   ", Type: "Exam", DueDate: date}); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("Expected ErrInvalidTask for blank name, got %v", err)
	}
	if _, err := NewTask(TaskInput{Name: "X", Type: "Lecture", DueDate: date}); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("Expected ErrInvalidTask for unknown type, got %v", err)
	}
	if _, err := NewTask(TaskInput{Name: "X", Type: "Exam"}); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("Expected ErrInvalidTask for missing date, got %v", err)
	}
}

func TestCompleteTaskIsMonotonic(t *testing.T) {
	tasks := sampleTasks()

	done, err := CompleteTask(tasks, "b")
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if !done[1].Completed || done[0].Completed || done[2].Completed {
		t.Errorf("Expected only b completed, got %+v", done)
	}
	if tasks[1].Completed {
		t.Error("Input slice modified")
	}

	again, err := CompleteTask(done, "b")
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if !again[1].Completed {
		t.Error("Expected task to stay completed")
	}

	if _, err := CompleteTask(tasks, "missing"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestDeleteTaskByStableID(t *testing.T) {
	tasks := sampleTasks()
	reminders := []models.Reminder{
		{ID: "r1", TaskID: "a", Task: "Essay"},
		{ID: "r2", TaskID: "b", Task: "Essay"},
		{ID: "r3", TaskID: "", Task: "Deleted long ago"},
	}

	keptTasks, keptReminders, err := DeleteTask(tasks, reminders, "a")
	if err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if len(keptTasks) != 2 || keptTasks[0].ID != "b" || keptTasks[1].ID != "c" {
		t.Errorf("Unexpected tasks after delete: %+v", keptTasks)
	}

	// Reminders bound to the deleted task go with it; a same-named task keeps
	// its own reminder and unbound legacy reminders are left alone.
	if len(keptReminders) != 2 || keptReminders[0].ID != "r2" || keptReminders[1].ID != "r3" {
		t.Errorf("Unexpected reminders after delete: %+v", keptReminders)
	}

	if _, _, err := DeleteTask(tasks, reminders, "missing"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestNewReminderBindsTask(t *testing.T) {
	tasks := sampleTasks()
	date := models.Date{Year: 2024, Month: 1, Day: 1}

	r, err := NewReminder(tasks, ReminderInput{TaskID: "c", ReminderDate: date, ReminderTime: models.Clock{Hour: 9}})
	if err != nil {
		t.Fatalf("NewReminder failed: %v", err)
	}
	if r.TaskID != "c" || r.Task != "Final" || r.ID == "" {
		t.Errorf("Unexpected reminder %+v", r)
	}

	if _, err := NewReminder(tasks, ReminderInput{TaskID: "zzz", ReminderDate: date}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
	if _, err := NewReminder(tasks, ReminderInput{TaskID: "c"}); !errors.Is(err, ErrInvalidReminder) {
		t.Errorf("Expected ErrInvalidReminder, got %v", err)
	}
}

func TestDeleteReminder(t *testing.T) {
	reminders := []models.Reminder{{ID: "r1"}, {ID: "r2"}}
	out, err := DeleteReminder(reminders, "r1")
	if err != nil {
		t.Fatalf("DeleteReminder failed: %v", err)
	}
	if len(out) != 1 || out[0].ID != "r2" {
		t.Errorf("Unexpected reminders %+v", out)
	}
	if _, err := DeleteReminder(reminders, "r9"); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("Expected ErrReminderNotFound, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	if p := Summarize(nil); !p.AllCompleted || p.CompletedCount != 0 || p.PendingCount != 0 {
		t.Errorf("Unexpected empty summary %+v", p)
	}

	tasks := sampleTasks()
	tasks[2].Completed = true
	p := Summarize(tasks)
	if p.CompletedCount != 1 || p.PendingCount != 2 || p.AllCompleted {
		t.Errorf("Unexpected summary %+v", p)
	}
	if p.Completed[0].ID != "c" {
		t.Errorf("Expected c completed, got %+v", p.Completed)
	}
}
