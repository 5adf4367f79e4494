package handlers

import (
	"net/http"

	"github.com/TWRT/savvystudy/internal/models"
	"github.com/TWRT/savvystudy/internal/planner"
	"github.com/TWRT/savvystudy/internal/service"
)

type CreateTaskRequestBody struct {
	Name    string       `json:"name"`
	Type    string       `json:"type"`
	DueDate models.Date  `json:"due_date"`
	DueTime models.Clock `json:"due_time"`
}

type TaskHandler struct {
	plannerService *service.PlannerService
}

func NewTaskHandler(plannerService *service.PlannerService) *TaskHandler {
	return &TaskHandler{
		plannerService: plannerService,
	}
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": h.plannerService.Tasks(session(r)),
	})
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var body CreateTaskRequestBody
	if !decodeBody(w, r, &body) {
		return
	}

	task, err := h.plannerService.AddTask(r.Context(), session(r), planner.TaskInput{
		Name:    body.Name,
		Type:    body.Type,
		DueDate: body.DueDate,
		DueTime: body.DueTime,
	})
	if err != nil {
		writeError(w, "Error trying to add task", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"task":    task,
		"message": "Task '" + task.Name + "' added successfully!",
	})
}

func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.plannerService.CompleteTask(r.Context(), session(r), r.PathValue("id"))
	if err != nil {
		writeError(w, "Error trying to complete task", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"task": task,
	})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.plannerService.DeleteTask(r.Context(), session(r), r.PathValue("id")); err != nil {
		writeError(w, "Error trying to delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Progress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"progress": h.plannerService.Progress(session(r)),
	})
}

func (h *TaskHandler) Reload(w http.ResponseWriter, r *http.Request) {
	sess := session(r)
	if err := h.plannerService.Reload(r.Context(), sess); err != nil {
		writeError(w, "Error trying to load user data", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks":     h.plannerService.Tasks(sess),
		"reminders": h.plannerService.Reminders(sess),
	})
}
