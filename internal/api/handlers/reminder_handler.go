package handlers

import (
	"net/http"

	"github.com/TWRT/savvystudy/internal/models"
	"github.com/TWRT/savvystudy/internal/notify"
	"github.com/TWRT/savvystudy/internal/planner"
	"github.com/TWRT/savvystudy/internal/service"
)

type CreateReminderRequestBody struct {
	TaskID       string       `json:"task_id"`
	ReminderDate models.Date  `json:"reminder_date"`
	ReminderTime models.Clock `json:"reminder_time"`
}

type ReminderHandler struct {
	plannerService *service.PlannerService
	inbox          *notify.Inbox
}

func NewReminderHandler(plannerService *service.PlannerService, inbox *notify.Inbox) *ReminderHandler {
	return &ReminderHandler{
		plannerService: plannerService,
		inbox:          inbox,
	}
}

func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reminders": h.plannerService.Reminders(session(r)),
	})
}

func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var body CreateReminderRequestBody
	if !decodeBody(w, r, &body) {
		return
	}

	reminder, err := h.plannerService.SetReminder(r.Context(), session(r), planner.ReminderInput{
		TaskID:       body.TaskID,
		ReminderDate: body.ReminderDate,
		ReminderTime: body.ReminderTime,
	})
	if err != nil {
		writeError(w, "Error trying to set reminder", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"reminder": reminder,
		"message":  "Reminder for '" + reminder.Task + "' set successfully!",
	})
}

func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := h.plannerService.DeleteReminder(r.Context(), session(r), r.PathValue("id")); err != nil {
		writeError(w, "Error trying to delete reminder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReminderHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": h.inbox.Drain(session(r).UserID),
	})
}
