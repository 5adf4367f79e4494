package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/TWRT/savvystudy/internal/client"
	"github.com/TWRT/savvystudy/internal/models"
	"github.com/TWRT/savvystudy/internal/planner"
)

var ErrNotAuthenticated = errors.New("not authenticated")

type UserData struct {
	Tasks     []models.Task
	Reminders []models.Reminder
}

// PlannerRepository moves a user's tasks and reminders between memory and
// the record store. Both collections are always written whole, together.
type PlannerRepository struct {
	store client.RecordStore
}

func NewPlannerRepository(store client.RecordStore) *PlannerRepository {
	return &PlannerRepository{store: store}
}

func userPath(user *models.User) string {
	return "users/" + user.LocalID
}

func tasksPath(user *models.User) string {
	return userPath(user) + "/tasks"
}

func remindersPath(user *models.User) string {
	return userPath(user) + "/reminders"
}

func authenticated(user *models.User) bool {
	return user != nil && user.LocalID != ""
}

func (r *PlannerRepository) Load(ctx context.Context, user *models.User) (*UserData, error) {
	if !authenticated(user) {
		return nil, ErrNotAuthenticated
	}

	rawTasks, err := r.store.Get(ctx, user.IDToken, tasksPath(user))
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	rawReminders, err := r.store.Get(ctx, user.IDToken, remindersPath(user))
	if err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}

	tasks, err := planner.DecodeTasks(rawTasks)
	if err != nil {
		return nil, err
	}
	reminders, err := planner.DecodeReminders(rawReminders, tasks)
	if err != nil {
		return nil, err
	}

	return &UserData{Tasks: tasks, Reminders: reminders}, nil
}

func (r *PlannerRepository) Save(ctx context.Context, user *models.User, tasks []models.Task, reminders []models.Reminder) error {
	if !authenticated(user) {
		return ErrNotAuthenticated
	}

	rawTasks, err := planner.EncodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	rawReminders, err := planner.EncodeReminders(reminders)
	if err != nil {
		return fmt.Errorf("encode reminders: %w", err)
	}

	children := map[string]any{
		"tasks":     rawTasks,
		"reminders": rawReminders,
	}
	if err := r.store.Update(ctx, user.IDToken, userPath(user), children); err != nil {
		return fmt.Errorf("write %s: %w", userPath(user), err)
	}
	return nil
}

// Init writes empty collections for a newly created user.
func (r *PlannerRepository) Init(ctx context.Context, user *models.User) error {
	return r.Save(ctx, user, []models.Task{}, []models.Reminder{})
}
