package mockapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sentimenta/moodsync/internal/api/dto"
	"github.com/sentimenta/moodsync/internal/config"
)

const testPassword = "correct horse"

func newTestServer(t *testing.T) (*Server, int) {
	t.Helper()
	hash, err := HashPassword(testPassword, 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	data := NewFixtures()
	uid := SeedDemo(data, "demo@example.com", hash, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	srv, err := New(Options{
		Config: config.MockConfig{JWTSecret: "s3cret", AccessTokenTTLMinutes: 60},
		Data:   data,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv, uid
}

func do(t *testing.T, srv *Server, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func login(t *testing.T, srv *Server, password string) *http.Response {
	t.Helper()
	payload, _ := json.Marshal(dto.LoginRequest{Email: "demo@example.com", Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := do(t, srv, req)
	return resp
}

func TestLoginSetsCredentialCookie(t *testing.T) {
	srv, uid := newTestServer(t)
	resp := login(t, srv, testPassword)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == config.DefaultCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatalf("no %s cookie in %v", config.DefaultCookieName, resp.Cookies())
	}
	if cookie.Path != "/" {
		t.Fatalf("cookie path=%q want=/", cookie.Path)
	}
	claims, err := srv.Tokens().ParseToken(cookie.Value)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != strconv.Itoa(uid) {
		t.Fatalf("sub=%q want=%d", claims.Subject, uid)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv, _ := newTestServer(t)
	if resp := login(t, srv, "wrong"); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d want=401", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireCookie(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/api/moods/get", "/api/advice", "/api/user/get"} {
		resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s status=%d want=401", path, resp.StatusCode)
		}
		var envelope dto.ErrorBody
		if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Code != "UNAUTHORIZED" {
			t.Fatalf("%s body=%s", path, body)
		}
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	srv, uid := newTestServer(t)
	srv.Tokens().now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := srv.Tokens().GenerateToken(strconv.Itoa(uid))
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	srv.Tokens().now = time.Now

	req := httptest.NewRequest(http.MethodGet, "/api/moods/get", nil)
	req.AddCookie(&http.Cookie{Name: config.DefaultCookieName, Value: tok})
	if resp, _ := do(t, srv, req); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d want=401", resp.StatusCode)
	}
}

func TestAuthenticatedReads(t *testing.T) {
	srv, uid := newTestServer(t)
	tok, _, err := srv.Tokens().GenerateToken(strconv.Itoa(uid))
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	get := func(path string) (*http.Response, []byte) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: config.DefaultCookieName, Value: tok})
		return do(t, srv, req)
	}

	resp, body := get("/api/moods/get")
	var moods []MoodRecord
	if resp.StatusCode != http.StatusOK || json.Unmarshal(body, &moods) != nil || len(moods) != 3 {
		t.Fatalf("moods status=%d body=%s", resp.StatusCode, body)
	}

	resp, body = get("/api/advice?date=2024-03-02")
	var advice AdviceRecord
	if resp.StatusCode != http.StatusOK || json.Unmarshal(body, &advice) != nil || advice.Date.Day() != 2 {
		t.Fatalf("advice status=%d body=%s", resp.StatusCode, body)
	}

	if resp, _ = get("/api/advice?date=2024-03-03"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing advice status=%d want=404", resp.StatusCode)
	}
	if resp, _ = get("/api/advice?date=March"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad date status=%d want=400", resp.StatusCode)
	}

	resp, body = get("/api/user/get")
	if resp.StatusCode != http.StatusOK || strings.Contains(string(body), "password") {
		t.Fatalf("user status=%d body=%s", resp.StatusCode, body)
	}
}

func TestStatusAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)
	if resp, _ := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/status", nil)); resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "sentimenta_mock_http_requests_total") {
		t.Fatalf("metrics status=%d body=%s", resp.StatusCode, body)
	}
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if resp.StatusCode != http.StatusNotFound || !strings.Contains(string(body), "NOT_FOUND") {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}
}
