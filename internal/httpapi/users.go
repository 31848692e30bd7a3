package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/service"
)

// handleLogin answers an empty object for bad credentials, which is what the
// desktop client checks for.
func (a *API) handleLogin(c *gin.Context) {
	if !a.loginLimiter.Allow(clientKey(c.Request)) {
		a.writeError(c, http.StatusTooManyRequests, errors.New("too many login attempts"))
		return
	}

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	user, err := a.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeEmpty(c)
			return
		}
		a.fail(c, err)
		return
	}

	resp := domain.LoginResponse{User: user}
	if a.auth.Enabled() {
		token, expiresAt, err := a.auth.Issue(user)
		if err != nil {
			a.fail(c, err)
			return
		}
		resp.AccessToken = token
		resp.ExpiresAt = expiresAt.Format(time.RFC3339)
	}
	writeJSON(c, http.StatusOK, resp)
}

func (a *API) handleLogout(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := a.service.Logout(c.Request.Context(), id); err != nil {
		a.fail(c, err)
		return
	}
	writeOK(c)
}

func (a *API) handleCheck(c *gin.Context) {
	if err := a.service.EnsureDefaults(c.Request.Context()); err != nil {
		a.fail(c, err)
		return
	}
	writeOK(c)
}

func (a *API) handleListUsers(c *gin.Context) {
	users, err := a.service.ListUsers(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, users)
}

func (a *API) handleGetUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}

	user, err := a.service.GetUser(c.Request.Context(), id)
	if err != nil {
		if service.IsNotFound(err) {
			writeEmpty(c)
			return
		}
		a.fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, user)
}

func (a *API) handleDeleteUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}
	if id == domain.DefaultAdminID {
		a.writeError(c, http.StatusBadRequest, errors.New("the administrator account cannot be deleted"))
		return
	}
	if err := a.service.DeleteUser(c.Request.Context(), id); err != nil {
		a.fail(c, err)
		return
	}
	writeOK(c)
}

func (a *API) handleSaveUser(c *gin.Context) {
	raw, err := bindValues(c)
	if err != nil {
		a.writeError(c, http.StatusBadRequest, err)
		return
	}
	id, err := domain.ToInt64(firstOf(raw, "id", "_id"))
	if err != nil {
		a.writeError(c, http.StatusBadRequest, fmt.Errorf("invalid id: %w", err))
		return
	}

	req := domain.UserUpsertRequest{
		ID:       id,
		Username: cast.ToString(raw["username"]),
		Password: cast.ToString(raw["password"]),
		Fullname: cast.ToString(raw["fullname"]),
		Permissions: domain.Permissions{
			Products:     permissionFlag(raw["perm_products"]),
			Categories:   permissionFlag(raw["perm_categories"]),
			Transactions: permissionFlag(raw["perm_transactions"]),
			Users:        permissionFlag(raw["perm_users"]),
			Settings:     permissionFlag(raw["perm_settings"]),
		},
	}

	user, created, err := a.service.SaveUser(c.Request.Context(), req)
	if err != nil {
		a.fail(c, err)
		return
	}
	if !created {
		writeOK(c)
		return
	}
	writeJSON(c, http.StatusOK, user)
}

// permissionFlag accepts checkbox values ("on") as well as 0/1 and booleans.
func permissionFlag(v any) int {
	s := strings.ToLower(strings.TrimSpace(cast.ToString(v)))
	switch s {
	case "on", "1", "true":
		return 1
	default:
		return 0
	}
}
