package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"storepos/backend/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoginRateLimitReturns429(t *testing.T) {
	api, _ := newTestAPI(t, "")

	body, _ := json.Marshal(domain.LoginRequest{Username: "admin", Password: "wrong"})
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "127.0.0.1:5000"
		res := httptest.NewRecorder()

		api.Handler().ServeHTTP(res, req)

		if i < 5 && res.Code != http.StatusOK {
			t.Fatalf("attempt %d expected 200, got %d", i+1, res.Code)
		}
		if i == 5 && res.Code != http.StatusTooManyRequests {
			t.Fatalf("attempt 6 expected 429, got %d", res.Code)
		}
	}
}

func TestLoginWithBadPasswordAnswersEmptyObject(t *testing.T) {
	api, _ := newTestAPI(t, "")

	res := doJSON(t, api.Handler(), http.MethodPost, "/api/users/login", domain.LoginRequest{Username: "admin", Password: "nope"})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if strings.TrimSpace(res.Body.String()) != "{}" {
		t.Fatalf("expected empty object, got %s", res.Body.String())
	}
}

func TestLoginStampsStatusWithoutToken(t *testing.T) {
	api, _ := newTestAPI(t, "")

	res := doJSON(t, api.Handler(), http.MethodPost, "/api/users/login", domain.LoginRequest{Username: "admin", Password: "admin"})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var payload domain.LoginResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode login response failed: %v", err)
	}
	if !strings.HasPrefix(payload.Status, "Logged In_") {
		t.Fatalf("expected login status, got %q", payload.Status)
	}
	if payload.AccessToken != "" {
		t.Fatalf("expected no token while auth is disabled")
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	api, _ := newTestAPI(t, testSecret)
	h := api.Handler()

	res := doJSON(t, h, http.MethodGet, "/api/users/all", nil)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.Code)
	}

	res = doJSON(t, h, http.MethodGet, "/api/users/all", nil, "Authorization", "Bearer garbage")
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", res.Code)
	}

	token := loginAs(t, api, "admin", "admin")
	res = doJSON(t, h, http.MethodGet, "/api/users/all", nil, "Authorization", "Bearer "+token)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", res.Code)
	}
	var users []domain.User
	if err := json.Unmarshal(res.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode users failed: %v", err)
	}
	if len(users) != 1 || users[0].Username != "admin" {
		t.Fatalf("unexpected users: %+v", users)
	}
	if strings.Contains(res.Body.String(), "$2a$") {
		t.Fatalf("password hash leaked in user listing")
	}
}

func TestOperatorWithoutPermissionGets403(t *testing.T) {
	api, svc := newTestAPI(t, testSecret)
	h := api.Handler()

	_, _, err := svc.SaveUser(context.Background(), domain.UserUpsertRequest{
		Username:    "kasir",
		Password:    "kasir-pass",
		Permissions: domain.Permissions{Transactions: 1},
	})
	if err != nil {
		t.Fatalf("seed operator failed: %v", err)
	}

	token := loginAs(t, api, "kasir", "kasir-pass")
	for _, path := range []string{"/api/users/all", "/api/users/user/1"} {
		res := doJSON(t, h, http.MethodGet, path, nil, "Authorization", "Bearer "+token)
		if res.Code != http.StatusForbidden {
			t.Fatalf("%s expected 403, got %d", path, res.Code)
		}
	}

	res := doJSON(t, h, http.MethodPost, "/api/settings/post", map[string]any{"store": "x"}, "Authorization", "Bearer "+token)
	if res.Code != http.StatusForbidden {
		t.Fatalf("settings save expected 403, got %d", res.Code)
	}
}

func TestAdministratorCannotBeDeleted(t *testing.T) {
	api, _ := newTestAPI(t, "")

	res := doJSON(t, api.Handler(), http.MethodDelete, "/api/users/user/1", nil)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestInternalErrorsStayGeneric(t *testing.T) {
	api, _ := newTestAPI(t, "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(res)
	ctx.Request = req
	api.writeError(ctx, http.StatusInternalServerError, context.DeadlineExceeded)

	if !strings.Contains(res.Body.String(), "internal server error") {
		t.Fatalf("expected generic 5xx body, got %s", res.Body.String())
	}
	if strings.Contains(res.Body.String(), "deadline") {
		t.Fatalf("error detail leaked: %s", res.Body.String())
	}
}

func TestClientKeyStripsPort(t *testing.T) {
	cases := map[string]string{
		"127.0.0.1:5000": "127.0.0.1",
		"[::1]:8001":     "::1",
		"":               "unknown",
		"localhost":      "localhost",
	}
	for remote, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		if got := clientKey(req); got != want {
			t.Fatalf("clientKey(%q) = %q, want %q", remote, got, want)
		}
	}
}

func loginAs(t *testing.T, api *API, username string, password string) string {
	t.Helper()

	res := doJSON(t, api.Handler(), http.MethodPost, "/api/users/login", domain.LoginRequest{Username: username, Password: password})
	if res.Code != http.StatusOK {
		t.Fatalf("login failed, status %d", res.Code)
	}

	var payload domain.LoginResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode login response failed: %v", err)
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		t.Fatalf("expected access token in login response")
	}
	return payload.AccessToken
}
