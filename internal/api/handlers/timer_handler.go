package handlers

import (
	"net/http"

	"github.com/TWRT/savvystudy/internal/service"
)

type TimerConfigRequestBody struct {
	DurationHours int `json:"duration_hours"`
	BreakMinutes  int `json:"break_interval_minutes"`
}

type TimerHandler struct {
	plannerService *service.PlannerService
}

func NewTimerHandler(plannerService *service.PlannerService) *TimerHandler {
	return &TimerHandler{
		plannerService: plannerService,
	}
}

func (h *TimerHandler) GetTimer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"timer": h.plannerService.Timer(session(r)),
	})
}

func (h *TimerHandler) Configure(w http.ResponseWriter, r *http.Request) {
	var body TimerConfigRequestBody
	if !decodeBody(w, r, &body) {
		return
	}

	snap, err := h.plannerService.ConfigureTimer(session(r), body.DurationHours, body.BreakMinutes)
	if err != nil {
		writeError(w, "Error trying to configure timer", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"timer": snap,
	})
}

func (h *TimerHandler) Start(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"timer": h.plannerService.StartTimer(session(r)),
	})
}

func (h *TimerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"timer": h.plannerService.StopTimer(session(r)),
	})
}
