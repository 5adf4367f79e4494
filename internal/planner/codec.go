package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/TWRT/savvystudy/internal/models"
	"github.com/google/uuid"
)

type taskRecord struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	DueDate   string `json:"due_date"`
	DueTime   string `json:"due_time"`
	Completed bool   `json:"completed"`
}

type reminderRecord struct {
	ID           string `json:"id,omitempty"`
	TaskID       string `json:"task_id,omitempty"`
	Task         string `json:"task"`
	ReminderDate string `json:"reminder_date"`
	ReminderTime string `json:"reminder_time"`
}

func EncodeTasks(tasks []models.Task) (json.RawMessage, error) {
	records := make([]taskRecord, len(tasks))
	for i, t := range tasks {
		records[i] = taskRecord{
			ID:        t.ID,
			Name:      t.Name,
			Type:      string(t.Type),
			DueDate:   t.DueDate.String(),
			DueTime:   t.DueTime.String(),
			Completed: t.Completed,
		}
	}
	return json.Marshal(records)
}

func EncodeReminders(reminders []models.Reminder) (json.RawMessage, error) {
	records := make([]reminderRecord, len(reminders))
	for i, r := range reminders {
		records[i] = reminderRecord{
			ID:           r.ID,
			TaskID:       r.TaskID,
			Task:         r.Task,
			ReminderDate: r.ReminderDate.String(),
			ReminderTime: r.ReminderTime.String(),
		}
	}
	return json.Marshal(records)
}

// DecodeTasks parses the stored task collection. An absent collection
// decodes to an empty slice. Records stored without an id get a new one.
func DecodeTasks(raw json.RawMessage) ([]models.Task, error) {
	records, err := decodeList[taskRecord](raw)
	if err != nil {
		return nil, fmt.Errorf("%w: tasks: %v", ErrMalformedRecord, err)
	}

	tasks := make([]models.Task, 0, len(records))
	for i, rec := range records {
		if rec == nil {
			continue
		}
		if strings.TrimSpace(rec.Name) == "" {
			return nil, fmt.Errorf("%w: tasks[%d].name is empty", ErrMalformedRecord, i)
		}
		taskType, err := models.ParseTaskType(rec.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: tasks[%d].type: %v", ErrMalformedRecord, i, err)
		}
		// Stored records must round-trip unchanged, so only the exact
		// display name is accepted here.
		if string(taskType) != rec.Type {
			return nil, fmt.Errorf("%w: tasks[%d].type: %q is not stored as %q", ErrMalformedRecord, i, rec.Type, taskType)
		}
		dueDate, err := models.ParseDate(rec.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: tasks[%d].due_date: %v", ErrMalformedRecord, i, err)
		}
		dueTime, err := models.ParseClock(rec.DueTime)
		if err != nil {
			return nil, fmt.Errorf("%w: tasks[%d].due_time: %v", ErrMalformedRecord, i, err)
		}

		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		tasks = append(tasks, models.Task{
			ID:        id,
			Name:      rec.Name,
			Type:      taskType,
			DueDate:   dueDate,
			DueTime:   dueTime,
			Completed: rec.Completed,
		})
	}
	return tasks, nil
}

// DecodeReminders parses the stored reminder collection. Legacy records
// without a task_id are bound to the first task carrying the same name;
// when none matches they stay unbound.
func DecodeReminders(raw json.RawMessage, tasks []models.Task) ([]models.Reminder, error) {
	records, err := decodeList[reminderRecord](raw)
	if err != nil {
		return nil, fmt.Errorf("%w: reminders: %v", ErrMalformedRecord, err)
	}

	byName := make(map[string]string, len(tasks))
	for _, t := range tasks {
		if _, ok := byName[t.Name]; !ok {
			byName[t.Name] = t.ID
		}
	}

	reminders := make([]models.Reminder, 0, len(records))
	for i, rec := range records {
		if rec == nil {
			continue
		}
		date, err := models.ParseDate(rec.ReminderDate)
		if err != nil {
			return nil, fmt.Errorf("%w: reminders[%d].reminder_date: %v", ErrMalformedRecord, i, err)
		}
		clock, err := models.ParseClock(rec.ReminderTime)
		if err != nil {
			return nil, fmt.Errorf("%w: reminders[%d].reminder_time: %v", ErrMalformedRecord, i, err)
		}

		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		taskID := rec.TaskID
		if taskID == "" {
			taskID = byName[rec.Task]
		}
		reminders = append(reminders, models.Reminder{
			ID:           id,
			TaskID:       taskID,
			Task:         rec.Task,
			ReminderDate: date,
			ReminderTime: clock,
		})
	}
	return reminders, nil
}

// decodeList accepts both shapes a path-addressed store hands back for a
// list: a JSON array (holes come back as null) or an object keyed by index.
func decodeList[T any](raw json.RawMessage) ([]*T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var items []*T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		var keyed map[string]*T
		if err := json.Unmarshal(trimmed, &keyed); err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, errA := strconv.Atoi(keys[i])
			b, errB := strconv.Atoi(keys[j])
			if errA == nil && errB == nil {
				return a < b
			}
			return keys[i] < keys[j]
		})
		items := make([]*T, 0, len(keys))
		for _, k := range keys {
			items = append(items, keyed[k])
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected a list, got %.20s", trimmed)
	}
}
