package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TWRT/savvystudy/internal/client"
	"github.com/TWRT/savvystudy/internal/models"
	"github.com/TWRT/savvystudy/internal/planner"
	"github.com/TWRT/savvystudy/internal/repository"
)

// tokenRefreshMargin is how long before expiry a store credential is renewed.
const tokenRefreshMargin = 5 * time.Minute

// PlannerService applies user actions to a session. Every method expects the
// caller to hold the workspace lock.
type PlannerService struct {
	repo     *repository.PlannerRepository
	identity client.IdentityProvider
	notifier client.Notifier
	now      func() time.Time
	logger   *log.Logger
}

func NewPlannerService(
	repo *repository.PlannerRepository,
	identity client.IdentityProvider,
	notifier client.Notifier,
	now func() time.Time,
	logger *log.Logger,
) *PlannerService {
	if now == nil {
		now = time.Now
	}
	return &PlannerService{
		repo:     repo,
		identity: identity,
		notifier: notifier,
		now:      now,
		logger:   logger.With("component", "planner"),
	}
}

// user returns the workspace user with a store credential that is valid for
// at least tokenRefreshMargin, renewing it when needed.
func (s *PlannerService) user(ctx context.Context, ws *Workspace) (*models.User, error) {
	u := ws.User
	if u.RefreshToken == "" || u.TokenExpiry.IsZero() || s.now().Add(tokenRefreshMargin).Before(u.TokenExpiry) {
		return u, nil
	}

	fresh, err := s.identity.Refresh(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("refresh id token: %w", err)
	}
	ws.User = fresh
	s.logger.Debug("id token refreshed", "user", ws.UserID, "expires", fresh.TokenExpiry)
	return fresh, nil
}

// commit persists both collections and only then swaps them into the workspace.
func (s *PlannerService) commit(ctx context.Context, ws *Workspace, tasks []models.Task, reminders []models.Reminder) error {
	user, err := s.user(ctx, ws)
	if err != nil {
		return err
	}
	if err := s.repo.Save(ctx, user, tasks, reminders); err != nil {
		return fmt.Errorf("save user data: %w", err)
	}
	ws.Tasks = tasks
	ws.Reminders = reminders
	return nil
}

func (s *PlannerService) Tasks(sess *Session) []models.Task {
	return slices.Clone(sess.Tasks)
}

func (s *PlannerService) AddTask(ctx context.Context, sess *Session, in planner.TaskInput) (models.Task, error) {
	task, err := planner.NewTask(in)
	if err != nil {
		return models.Task{}, err
	}

	tasks := append(slices.Clone(sess.Tasks), task)
	if err := s.commit(ctx, sess.Workspace, tasks, sess.Reminders); err != nil {
		return models.Task{}, err
	}
	s.logger.Debug("task added", "user", sess.UserID, "task", task.ID)
	return task, nil
}

func (s *PlannerService) CompleteTask(ctx context.Context, sess *Session, id string) (models.Task, error) {
	tasks, err := planner.CompleteTask(sess.Tasks, id)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.commit(ctx, sess.Workspace, tasks, sess.Reminders); err != nil {
		return models.Task{}, err
	}

	idx := slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == id })
	return tasks[idx], nil
}

func (s *PlannerService) DeleteTask(ctx context.Context, sess *Session, id string) error {
	tasks, reminders, err := planner.DeleteTask(sess.Tasks, sess.Reminders, id)
	if err != nil {
		return err
	}
	if dropped := len(sess.Reminders) - len(reminders); dropped > 0 {
		s.logger.Debug("reminders dropped with task", "user", sess.UserID, "task", id, "count", dropped)
	}
	return s.commit(ctx, sess.Workspace, tasks, reminders)
}

func (s *PlannerService) Reminders(sess *Session) []models.Reminder {
	return slices.Clone(sess.Reminders)
}

func (s *PlannerService) SetReminder(ctx context.Context, sess *Session, in planner.ReminderInput) (models.Reminder, error) {
	reminder, err := planner.NewReminder(sess.Tasks, in)
	if err != nil {
		return models.Reminder{}, err
	}

	reminders := append(slices.Clone(sess.Reminders), reminder)
	if err := s.commit(ctx, sess.Workspace, sess.Tasks, reminders); err != nil {
		return models.Reminder{}, err
	}
	return reminder, nil
}

func (s *PlannerService) DeleteReminder(ctx context.Context, sess *Session, id string) error {
	reminders, err := planner.DeleteReminder(sess.Reminders, id)
	if err != nil {
		return err
	}
	return s.commit(ctx, sess.Workspace, sess.Tasks, reminders)
}

// CheckReminders fires every due reminder of the workspace once. Fired
// reminders leave the workspace before the save so a failed save cannot make
// them fire twice; the next successful save persists the removal.
func (s *PlannerService) CheckReminders(ctx context.Context, ws *Workspace) ([]models.Notification, error) {
	now := s.now()
	fired, remaining := planner.CheckReminders(now, ws.Reminders)
	if len(fired) == 0 {
		return []models.Notification{}, nil
	}

	ws.Reminders = remaining
	notifications := make([]models.Notification, 0, len(fired))
	for _, r := range fired {
		n := planner.ReminderNotification(ws.UserID, r, now)
		s.notifier.Notify(ctx, n)
		notifications = append(notifications, n)
	}

	user, err := s.user(ctx, ws)
	if err == nil {
		err = s.repo.Save(ctx, user, ws.Tasks, remaining)
	}
	if err != nil {
		s.logger.Error("save after reminders fired", "user", ws.UserID, "err", err)
		return notifications, fmt.Errorf("save user data: %w", err)
	}
	return notifications, nil
}

func (s *PlannerService) Progress(sess *Session) models.Progress {
	return planner.Summarize(sess.Tasks)
}

// Reload replaces the workspace collections with the stored ones. On any
// error, including a malformed record, the workspace keeps what it had.
func (s *PlannerService) Reload(ctx context.Context, sess *Session) error {
	user, err := s.user(ctx, sess.Workspace)
	if err != nil {
		return err
	}
	data, err := s.repo.Load(ctx, user)
	if err != nil {
		return fmt.Errorf("load user data: %w", err)
	}
	sess.Tasks = data.Tasks
	sess.Reminders = data.Reminders
	return nil
}

func (s *PlannerService) Timer(sess *Session) planner.TimerSnapshot {
	return sess.Timer.Snapshot()
}

func (s *PlannerService) ConfigureTimer(sess *Session, durationHours, breakMinutes int) (planner.TimerSnapshot, error) {
	if err := sess.Timer.Configure(durationHours, breakMinutes); err != nil {
		return planner.TimerSnapshot{}, err
	}
	return sess.Timer.Snapshot(), nil
}

func (s *PlannerService) StartTimer(sess *Session) planner.TimerSnapshot {
	sess.Timer.Start()
	return sess.Timer.Snapshot()
}

func (s *PlannerService) StopTimer(sess *Session) planner.TimerSnapshot {
	sess.Timer.Stop()
	return sess.Timer.Snapshot()
}
