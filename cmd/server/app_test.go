package main

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/todo-reminder/internal/config"
	"github.com/phrazzld/todo-reminder/internal/platform/logger"
	"github.com/phrazzld/todo-reminder/internal/platform/migrate"
	"github.com/phrazzld/todo-reminder/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNow is 2026-10-19 12:00 UTC.
var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "debug", ShutdownTimeoutSeconds: 5},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "reminders.db")},
		Reminder: config.ReminderConfig{DefaultTime: "09:00"},
		Webhook: config.WebhookConfig{
			TimeoutSeconds: 5,
			EventName:      webhook.DefaultEventName,
			Username:       webhook.DefaultUsername,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *application {
	t.Helper()
	ctx := context.Background()
	l := logger.NewDiscardLogger()

	st, err := openStorage(ctx, cfg.Database, l)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.db.Close() })

	require.NoError(t, migrate.Run(ctx, st.db, st.dialect, st.migrations, migrate.CommandUp, l))

	app, err := newApplication(cfg, l, st, withClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return app
}

type hookRecorder struct {
	mu       sync.Mutex
	payloads []webhook.Payload
}

func (h *hookRecorder) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p webhook.Payload
		_ = json.NewDecoder(r.Body).Decode(&p)
		h.mu.Lock()
		h.payloads = append(h.payloads, p)
		h.mu.Unlock()
		w.WriteHeader(status)
	}
}

func (h *hookRecorder) messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.payloads))
	for _, p := range h.payloads {
		out = append(out, p.Message)
	}
	return out
}

func do(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestReminderLifecycle(t *testing.T) {
	hook := &hookRecorder{}
	hookServer := httptest.NewServer(hook.handler(http.StatusOK))
	defer hookServer.Close()

	app := newTestApp(t, testConfig(t))
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	status, body := do(t, http.MethodPost, srv.URL+"/add-task", `{"task":"Buy milk","time":"08:00"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"message":"Task added successfully!"`)

	status, _ = do(t, http.MethodPost, srv.URL+"/add-task", `{"task":"Call mom","time":"18:00"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, http.MethodPost, srv.URL+"/add-task", `{"task":"Plan trip","date":"2026-10-25"}`)
	assert.Equal(t, http.StatusOK, status)

	status, body = do(t, http.MethodPost, srv.URL+"/add-task", `{"task":"  "}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, `"error":"Task cannot be empty"`)

	status, body = do(t, http.MethodPost, srv.URL+"/add-task", `{"task":"Too late","date":"2026-10-18"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, `"error":"Date cannot be in the past"`)

	status, body = do(t, http.MethodGet, srv.URL+"/list-tasks", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"tasks":["08:00 - Buy milk","18:00 - Call mom"]}`, body)

	status, body = do(t, http.MethodPost, srv.URL+"/tick", `{"return_url":"`+hookServer.URL+`"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"Reminder sent successfully"}`, body)
	assert.Equal(t,
		[]string{"\U0001F4DD Daily To-Do List:\n- 08:00 - Buy milk\n- 18:00 - Call mom"},
		hook.messages())

	// 08:00 has elapsed at noon and is purged; 18:00 stays.
	status, body = do(t, http.MethodGet, srv.URL+"/list-tasks", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"tasks":["18:00 - Call mom"]}`, body)

	status, body = do(t, http.MethodGet, srv.URL+"/tasks", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"reminders":{"2026-10-19":["18:00 - Call mom"],"2026-10-25":["09:00 - Plan trip"]}}`, body)

	status, body = do(t, http.MethodDelete, srv.URL+"/tasks?date=2026-10-25", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"deleted":1}`, body)

	status, _ = do(t, http.MethodDelete, srv.URL+"/tasks/999", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = do(t, http.MethodGet, srv.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `reminder_ticks_total{outcome="delivered"} 1`)
	assert.Contains(t, body, `reminder_reminders_added_total 3`)
	assert.Contains(t, body, `reminder_reminders_purged_total 1`)
	assert.Contains(t, body, `route="/add-task"`)
}

func TestTickWithoutEndpoint(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	status, body := do(t, http.MethodPost, srv.URL+"/tick", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"error","detail":"No webhook endpoint configured"}`, body)
}

func TestListTasksEmptyAfterPurge(t *testing.T) {
	hook := &hookRecorder{}
	hookServer := httptest.NewServer(hook.handler(http.StatusOK))
	defer hookServer.Close()

	app := newTestApp(t, testConfig(t))
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	status, body := do(t, http.MethodGet, srv.URL+"/list-tasks", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"tasks":[]}`, body)

	status, _ = do(t, http.MethodPost, srv.URL+"/add-task", `{"task":"Pay rent","time":"09:00","date":"2026-10-19"}`)
	require.Equal(t, http.StatusOK, status)

	status, body = do(t, http.MethodPost, srv.URL+"/tick", `{"return_url":"`+hookServer.URL+`"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"Reminder sent successfully"}`, body)

	status, body = do(t, http.MethodGet, srv.URL+"/list-tasks", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"tasks":[]}`, body)
}

func TestTickUsesDefaultWebhook(t *testing.T) {
	hook := &hookRecorder{}
	hookServer := httptest.NewServer(hook.handler(http.StatusBadGateway))
	defer hookServer.Close()

	cfg := testConfig(t)
	cfg.Webhook.DefaultURL = hookServer.URL
	app := newTestApp(t, cfg)
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	status, body := do(t, http.MethodPost, srv.URL+"/tick", `{}`)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"error","detail":"Failed to send reminder: 502"}`, body)
	assert.Equal(t, []string{"\U0001F4DD Daily To-Do List:\n- No pending tasks!"}, hook.messages())
}

func TestIntegrationAndHealthRoutes(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	status, body := do(t, http.MethodGet, srv.URL+"/integration-json", "")
	assert.Equal(t, http.StatusOK, status)
	var descriptor struct {
		Data struct {
			TickURL string `json:"tick_url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &descriptor))
	assert.Equal(t, srv.URL+"/tick", descriptor.Data.TickURL)

	status, body = do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/add-task", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln, app.setupRouter()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	assert.Error(t, app.storage.db.Ping(), "storage is closed on shutdown")
}

func TestOpenStorageUnsupportedDriver(t *testing.T) {
	_, err := openStorage(context.Background(), config.DatabaseConfig{Driver: "mysql"}, logger.NewDiscardLogger())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	_, err := loadAppConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to load configuration")
}
