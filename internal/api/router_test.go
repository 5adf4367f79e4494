package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TWRT/savvystudy/internal/config"
	"github.com/TWRT/savvystudy/internal/repository"
)

type apiClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *apiClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *apiClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type testAPI struct {
	t     *testing.T
	srv   *httptest.Server
	clock *apiClock
	token string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db, err := repository.InitDB(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret"
	clock := &apiClock{t: time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)}

	handler, _ := SetupRouter(Dependencies{
		Config:   cfg,
		Identity: repository.NewUserRepository(db),
		Store:    repository.NewDocumentRepository(db),
		Logger:   log.New(io.Discard),
		Now:      clock.Now,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testAPI{t: t, srv: srv, clock: clock}
}

func (a *testAPI) do(method, path string, body any) (int, map[string]any) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			a.t.Fatal(err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	if err != nil {
		a.t.Fatal(err)
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.srv.Client().Do(req)
	if err != nil {
		a.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			a.t.Fatalf("%s %s: invalid JSON %q", method, path, raw)
		}
	}
	return resp.StatusCode, out
}

func (a *testAPI) signUp() {
	a.t.Helper()
	status, body := a.do(http.MethodPost, "/auth/signup", map[string]string{
		"email":    "ada@example.com",
		"password": "secret1",
	})
	if status != http.StatusCreated {
		a.t.Fatalf("Expected 201 on signup, got %d: %v", status, body)
	}
	a.token = body["token"].(string)
}

func (a *testAPI) createTask(name string) string {
	a.t.Helper()
	status, body := a.do(http.MethodPost, "/tasks", map[string]string{
		"name":     name,
		"type":     "Exam",
		"due_date": "2024-05-20",
		"due_time": "09:30:00",
	})
	if status != http.StatusCreated {
		a.t.Fatalf("Expected 201 on create task, got %d: %v", status, body)
	}
	return body["task"].(map[string]any)["id"].(string)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	status, body := api.do(http.MethodGet, "/health", nil)
	if status != http.StatusOK || body["status"] != "ok" {
		t.Errorf("Unexpected health response %d %v", status, body)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{"/tasks", "/reminders", "/progress", "/timer", "/notifications"} {
		status, body := api.do(http.MethodGet, path, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("GET %s: expected 401, got %d", path, status)
		}
		if body["error"] == nil {
			t.Errorf("GET %s: expected error body", path)
		}
	}

	api.token = "garbage"
	if status, _ := api.do(http.MethodGet, "/tasks", nil); status != http.StatusUnauthorized {
		t.Errorf("Expected 401 for bad token, got %d", status)
	}
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)
	api.signUp()

	status, _ := api.do(http.MethodPost, "/auth/signup", map[string]string{"email": "ada@example.com", "password": "secret1"})
	if status != http.StatusUnauthorized {
		t.Errorf("Expected 401 for duplicate signup, got %d", status)
	}

	status, body := api.do(http.MethodPost, "/auth/login", map[string]string{"email": "ada@example.com", "password": "wrong12"})
	if status != http.StatusUnauthorized {
		t.Errorf("Expected 401 for bad password, got %d: %v", status, body)
	}

	status, body = api.do(http.MethodPost, "/auth/login", map[string]string{"email": "ada@example.com", "password": "secret1"})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 on login, got %d: %v", status, body)
	}
	user := body["user"].(map[string]any)
	if user["email"] != "ada@example.com" || user["localId"] == "" {
		t.Errorf("Unexpected user %v", user)
	}

	api.token = body["token"].(string)
	if status, _ := api.do(http.MethodPost, "/auth/logout", nil); status != http.StatusNoContent {
		t.Errorf("Expected 204 on logout, got %d", status)
	}
	if status, _ := api.do(http.MethodGet, "/tasks", nil); status != http.StatusUnauthorized {
		t.Errorf("Expected 401 after logout, got %d", status)
	}

	if status, _ := api.do(http.MethodPost, "/auth/login", "not an object"); status != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad body, got %d", status)
	}
}

func TestTaskLifecycle(t *testing.T) {
	api := newTestAPI(t)
	api.signUp()

	first := api.createTask("Midterm")
	second := api.createTask("Final")

	status, body := api.do(http.MethodPost, "/tasks/"+first+"/complete", nil)
	if status != http.StatusOK {
		t.Fatalf("Expected 200 on complete, got %d: %v", status, body)
	}
	if body["task"].(map[string]any)["completed"] != true {
		t.Errorf("Expected completed task, got %v", body)
	}

	status, body = api.do(http.MethodGet, "/progress", nil)
	if status != http.StatusOK {
		t.Fatalf("Expected 200 on progress, got %d", status)
	}
	progress := body["progress"].(map[string]any)
	if progress["completed_count"] != float64(1) || progress["pending_count"] != float64(1) || progress["all_completed"] != false {
		t.Errorf("Unexpected progress %v", progress)
	}

	if status, _ := api.do(http.MethodDelete, "/tasks/"+first, nil); status != http.StatusNoContent {
		t.Errorf("Expected 204 on delete, got %d", status)
	}
	if status, _ := api.do(http.MethodDelete, "/tasks/"+first, nil); status != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", status)
	}

	status, body = api.do(http.MethodGet, "/tasks", nil)
	tasks := body["tasks"].([]any)
	if status != http.StatusOK || len(tasks) != 1 || tasks[0].(map[string]any)["id"] != second {
		t.Errorf("Expected only the second task, got %d %v", status, body)
	}
	task := tasks[0].(map[string]any)
	if task["due_date"] != "2024-05-20" || task["due_time"] != "09:30:00" || task["type"] != "Exam" {
		t.Errorf("Unexpected task fields %v", task)
	}

	status, _ = api.do(http.MethodPost, "/tasks", map[string]string{"name": "", "type": "Exam", "due_date": "2024-05-20"})
	if status != http.StatusBadRequest {
		t.Errorf("Expected 400 for blank name, got %d", status)
	}
	status, _ = api.do(http.MethodPost, "/tasks", map[string]string{"name": "X", "type": "Exam", "due_date": "20/05/2024"})
	if status != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad date, got %d", status)
	}
}

func TestRemindersFireThroughRequests(t *testing.T) {
	api := newTestAPI(t)
	api.signUp()
	taskID := api.createTask("Midterm")

	status, body := api.do(http.MethodPost, "/reminders", map[string]string{
		"task_id":       taskID,
		"reminder_date": "2024-05-10",
		"reminder_time": "12:30:00",
	})
	if status != http.StatusCreated {
		t.Fatalf("Expected 201 on reminder, got %d: %v", status, body)
	}

	status, body = api.do(http.MethodGet, "/notifications", nil)
	if status != http.StatusOK || len(body["notifications"].([]any)) != 0 {
		t.Fatalf("Expected no notifications yet, got %d %v", status, body)
	}

	api.clock.Advance(time.Hour)

	status, body = api.do(http.MethodGet, "/notifications", nil)
	notes := body["notifications"].([]any)
	if status != http.StatusOK || len(notes) != 1 {
		t.Fatalf("Expected one notification, got %d %v", status, body)
	}
	if msg := notes[0].(map[string]any)["message"]; msg != "Time to work on: Midterm" {
		t.Errorf("Unexpected message %v", msg)
	}

	status, body = api.do(http.MethodGet, "/reminders", nil)
	if status != http.StatusOK || len(body["reminders"].([]any)) != 0 {
		t.Errorf("Expected fired reminder removed, got %v", body)
	}
	if _, body = api.do(http.MethodGet, "/notifications", nil); len(body["notifications"].([]any)) != 0 {
		t.Errorf("Expected no repeat notification, got %v", body)
	}

	status, _ = api.do(http.MethodPost, "/reminders", map[string]string{
		"task_id":       "missing",
		"reminder_date": "2024-05-11",
		"reminder_time": "08:00:00",
	})
	if status != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown task, got %d", status)
	}
}

func TestTimerEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.signUp()

	status, body := api.do(http.MethodPut, "/timer/config", map[string]int{"duration_hours": 1, "break_interval_minutes": 30})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 on config, got %d: %v", status, body)
	}
	if body["timer"].(map[string]any)["total_seconds"] != float64(5400) {
		t.Errorf("Expected 5400 total seconds, got %v", body)
	}

	api.do(http.MethodPost, "/timer/start", nil)
	api.clock.Advance(90 * time.Minute)

	_, body = api.do(http.MethodGet, "/timer", nil)
	timer := body["timer"].(map[string]any)
	if timer["remaining_seconds"] != float64(0) || timer["state"] != "running" {
		t.Errorf("Expected running at zero, got %v", timer)
	}

	status, _ = api.do(http.MethodPut, "/timer/config", map[string]int{"duration_hours": 2, "break_interval_minutes": 60})
	if status != http.StatusConflict {
		t.Errorf("Expected 409 while running, got %d", status)
	}

	_, body = api.do(http.MethodPost, "/timer/stop", nil)
	if body["timer"].(map[string]any)["state"] != "stopped" {
		t.Errorf("Expected stopped, got %v", body)
	}

	status, _ = api.do(http.MethodPut, "/timer/config", map[string]int{"duration_hours": 9, "break_interval_minutes": 60})
	if status != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid plan, got %d", status)
	}
}
