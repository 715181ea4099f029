package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/softysite/internal/config"
	"github.com/softysite/internal/db"
	"github.com/softysite/internal/handler"
	"github.com/softysite/internal/session"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler, withJar bool) *localClient {
	var jar http.CookieJar
	if withJar {
		if j, err := cookiejar.New(nil); err == nil {
			jar = j
		}
	}
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	if c.jar != nil {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}
	return resp, nil
}

const baseURL = "http://softy.test"

func newTestRouter(t *testing.T, staticDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close(gdb) })

	if _, err := db.SeedContent(gdb); err != nil {
		t.Fatalf("failed to seed content: %v", err)
	}
	if _, err := db.CreateUser(gdb, "admin", "admin123"); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	cfg := config.AppConfig{
		SessionSecret:  "router-test-secret",
		SessionTTL:     time.Hour,
		StaticDir:      staticDir,
		AllowedOrigins: []string{"http://localhost:5173"},
	}
	api := handler.NewAPI(gdb, session.NewManager(cfg.SessionTTL), nil)
	return SetupRouter(cfg, api)
}

func send(t *testing.T, client *localClient, method, path string, payload interface{}) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, _ := client.Do(req)
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func TestAdminFlow(t *testing.T) {
	r := newTestRouter(t, "")
	public := newLocalClient(r, false)
	admin := newLocalClient(r, true)

	status, _ := send(t, public, http.MethodPost, "/api/contact", map[string]string{
		"name": "Anna", "email": "anna@example.com", "message": "We need a landing page",
	})
	if status != http.StatusOK {
		t.Fatalf("contact submit: expected 200, got %d", status)
	}

	for _, path := range []string{"/api/admin/contacts", "/api/admin/content", "/api/admin/statistics", "/api/auth/status"} {
		if status, _ := send(t, public, http.MethodGet, path, nil); status != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without session, got %d", path, status)
		}
	}

	status, body := send(t, admin, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "admin123"})
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d %s", status, body)
	}

	status, body = send(t, admin, http.MethodGet, "/api/admin/contacts", nil)
	if status != http.StatusOK {
		t.Fatalf("list contacts: expected 200, got %d", status)
	}
	var contacts []db.ContactMessage
	if err := json.Unmarshal(body, &contacts); err != nil || len(contacts) != 1 {
		t.Fatalf("unexpected contacts: %s", body)
	}

	status, body = send(t, admin, http.MethodPost, fmt.Sprintf("/api/admin/contacts/%d/read", contacts[0].ID), nil)
	if status != http.StatusOK {
		t.Fatalf("mark read: expected 200, got %d %s", status, body)
	}

	status, body = send(t, admin, http.MethodGet, "/api/admin/content", nil)
	var entries []db.ContentEntry
	if status != http.StatusOK || json.Unmarshal(body, &entries) != nil || len(entries) == 0 {
		t.Fatalf("list content: got %d %s", status, body)
	}

	status, body = send(t, admin, http.MethodPatch, fmt.Sprintf("/api/admin/content/%d", entries[0].ID), map[string]string{"value": "Updated"})
	if status != http.StatusOK {
		t.Fatalf("update content: expected 200, got %d %s", status, body)
	}

	send(t, public, http.MethodPost, "/api/page-view", map[string]string{"path": "/"})
	status, body = send(t, admin, http.MethodGet, "/api/admin/statistics", nil)
	var views []db.PageView
	if status != http.StatusOK || json.Unmarshal(body, &views) != nil || len(views) != 1 || views[0].Count != 1 {
		t.Fatalf("statistics: got %d %s", status, body)
	}

	status, _ = send(t, admin, http.MethodDelete, fmt.Sprintf("/api/admin/contacts/%d", contacts[0].ID), nil)
	if status != http.StatusOK {
		t.Fatalf("delete contact: expected 200, got %d", status)
	}

	if status, _ := send(t, admin, http.MethodPost, "/api/auth/logout", nil); status != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", status)
	}
	if status, _ := send(t, admin, http.MethodGet, "/api/admin/contacts", nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
}

func TestPublicEndpoints(t *testing.T) {
	r := newTestRouter(t, "")
	client := newLocalClient(r, false)

	status, body := send(t, client, http.MethodGet, "/api/health", nil)
	if status != http.StatusOK || string(body) != `{"success":true}` {
		t.Fatalf("health: got %d %s", status, body)
	}

	status, body = send(t, client, http.MethodGet, "/api/content", nil)
	var grouped map[string]map[string]map[string]string
	if status != http.StatusOK || json.Unmarshal(body, &grouped) != nil {
		t.Fatalf("content: got %d %s", status, body)
	}
	if _, ok := grouped["hero"]["title"]; !ok {
		t.Fatalf("expected seeded hero.title, got %s", body)
	}

	status, body = send(t, client, http.MethodGet, "/api/unknown", nil)
	if status != http.StatusNotFound || string(body) != `{"message":"Not found"}` {
		t.Fatalf("unknown api: got %d %s", status, body)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow origin %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("expected credentials to be allowed")
	}
}

func TestSPAFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>spa</html>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}

	r := newTestRouter(t, dir)
	client := newLocalClient(r, false)

	status, body := send(t, client, http.MethodGet, "/assets/app.js", nil)
	if status != http.StatusOK || string(body) != "console.log(1)" {
		t.Fatalf("asset: got %d %q", status, body)
	}

	for _, path := range []string{"/", "/admin", "/services/web"} {
		status, body = send(t, client, http.MethodGet, path, nil)
		if status != http.StatusOK || string(body) != "<html>spa</html>" {
			t.Fatalf("%s: expected index.html, got %d %q", path, status, body)
		}
	}

	status, _ = send(t, client, http.MethodGet, "/api/nope", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected api 404 even with SPA, got %d", status)
	}
}

func TestAuthenticatedRequestRefreshesSessionCookie(t *testing.T) {
	r := newTestRouter(t, "")
	admin := newLocalClient(r, true)

	status, body := send(t, admin, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "admin123"})
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d %s", status, body)
	}

	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/auth/status", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, _ := admin.Do(req)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", resp.StatusCode)
	}

	var refreshed *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			refreshed = c
		}
	}
	if refreshed == nil {
		t.Fatalf("expected %s cookie to be rewritten, got Set-Cookie=%q", sessionCookieName, resp.Header.Get("Set-Cookie"))
	}
	if refreshed.MaxAge != int(time.Hour.Seconds()) {
		t.Fatalf("expected Max-Age %d, got %d", int(time.Hour.Seconds()), refreshed.MaxAge)
	}

	// The refreshed cookie still carries a valid session.
	if status, _ := send(t, admin, http.MethodGet, "/api/auth/status", nil); status != http.StatusOK {
		t.Fatalf("expected refreshed cookie to authenticate, got %d", status)
	}

	public := newLocalClient(r, false)
	req, _ = http.NewRequest(http.MethodGet, baseURL+"/api/auth/status", nil)
	resp, _ = public.Do(req)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized || resp.Header.Get("Set-Cookie") != "" {
		t.Fatalf("rejected request must not set a cookie, got %d %q", resp.StatusCode, resp.Header.Get("Set-Cookie"))
	}
}
