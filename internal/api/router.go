package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TWRT/savvystudy/internal/api/handlers"
	"github.com/TWRT/savvystudy/internal/api/middleware"
	"github.com/TWRT/savvystudy/internal/client"
	"github.com/TWRT/savvystudy/internal/config"
	"github.com/TWRT/savvystudy/internal/logging"
	"github.com/TWRT/savvystudy/internal/notify"
	"github.com/TWRT/savvystudy/internal/repository"
	"github.com/TWRT/savvystudy/internal/service"
)

type Dependencies struct {
	Config   *config.Config
	Identity client.IdentityProvider
	Store    client.RecordStore
	Logger   *log.Logger
	Now      func() time.Time
}

func SetupRouter(deps Dependencies) (http.Handler, *service.ReminderSweeper) {
	cfg := deps.Config
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	inbox := notify.NewInbox(cfg.Reminders.InboxSize)
	notifier := notify.Fanout{notify.NewLogNotifier(deps.Logger), inbox}

	plannerRepo := repository.NewPlannerRepository(deps.Store)
	sessions := service.NewSessionStore(cfg.Auth.SessionTTL, now)
	tokens := service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, now)

	authService := service.NewAuthService(
		deps.Identity,
		plannerRepo,
		sessions,
		tokens,
		cfg.Plan.DurationHours,
		cfg.Plan.BreakMinutes,
		now,
		deps.Logger,
	)
	plannerService := service.NewPlannerService(plannerRepo, deps.Identity, notifier, now, deps.Logger)
	sweeper := service.NewReminderSweeper(sessions, plannerService, cfg.Reminders.PollInterval, deps.Logger)

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(plannerService)
	reminderHandler := handlers.NewReminderHandler(plannerService, inbox)
	timerHandler := handlers.NewTimerHandler(plannerService)

	requireSession := middleware.Auth(authService, plannerService, deps.Logger)
	protected := func(h http.HandlerFunc) http.Handler {
		return requireSession(h)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /auth/signup", authHandler.SignUp)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.Handle("POST /auth/logout", protected(authHandler.Logout))

	mux.Handle("GET /tasks", protected(taskHandler.ListTasks))
	mux.Handle("POST /tasks", protected(taskHandler.CreateTask))
	mux.Handle("POST /tasks/{id}/complete", protected(taskHandler.CompleteTask))
	mux.Handle("DELETE /tasks/{id}", protected(taskHandler.DeleteTask))
	mux.Handle("GET /progress", protected(taskHandler.Progress))
	mux.Handle("POST /sync", protected(taskHandler.Reload))

	mux.Handle("GET /reminders", protected(reminderHandler.ListReminders))
	mux.Handle("POST /reminders", protected(reminderHandler.CreateReminder))
	mux.Handle("DELETE /reminders/{id}", protected(reminderHandler.DeleteReminder))
	mux.Handle("GET /notifications", protected(reminderHandler.Notifications))

	mux.Handle("GET /timer", protected(timerHandler.GetTimer))
	mux.Handle("PUT /timer/config", protected(timerHandler.Configure))
	mux.Handle("POST /timer/start", protected(timerHandler.Start))
	mux.Handle("POST /timer/stop", protected(timerHandler.Stop))

	return logging.Middleware(deps.Logger, mux), sweeper
}
