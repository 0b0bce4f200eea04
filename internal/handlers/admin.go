package handlers

import (
	"KVideo/internal/auth"
	"KVideo/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminHandler — CRUD учётных записей. Перехватчик уже отсёк не‑админов по
// клеймам токена; здесь роль дополнительно перечитывается из хранилища,
// чтобы снятие прав действовало немедленно.
type AdminHandler struct {
	Users    *service.UserService
	Resolver *auth.Resolver
	Logger   *zap.SugaredLogger
}

func NewAdminHandler(users *service.UserService, resolver *auth.Resolver, logger *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{Users: users, Resolver: resolver, Logger: logger}
}

// requireAdmin резолвит вызывающего и требует свежий админский флаг.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) *auth.AuthUser {
	user, err := resolveUser(r, h.Resolver)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return nil
	}
	if !user.IsAdmin {
		writeError(w, http.StatusForbidden, "forbidden")
		return nil
	}
	return user
}

func parseUserID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// ListUsers возвращает всех пользователей без дайджестов паролей.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}
	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		h.Logger.Errorw("ListUsers: service error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	out := make([]*auth.AuthUser, 0, len(users))
	for i := range users {
		out = append(out, auth.NewAuthUser(&users[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

type createUserRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	DisablePremium *bool  `json:"disablePremium,omitempty"`
}

// CreateUser создаёт обычного пользователя. disablePremium по умолчанию true.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	disablePremium := true
	if req.DisablePremium != nil {
		disablePremium = *req.DisablePremium
	}

	user, err := h.Users.CreateUser(r.Context(), req.Username, req.Password, disablePremium)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"user": auth.NewAuthUser(user)})
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "username and password are required")
	case errors.Is(err, service.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username already exists")
	default:
		h.Logger.Errorw("CreateUser: service error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
	}
}

type updateUserRequest struct {
	Username       *string `json:"username,omitempty"`
	Password       *string `json:"password,omitempty"`
	DisablePremium *bool   `json:"disablePremium,omitempty"`
}

// UpdateUser — частичное обновление пользователя.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Users.UpdateUser(r.Context(), id, service.UserUpdate{
		Username:       req.Username,
		Password:       req.Password,
		DisablePremium: req.DisablePremium,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"user": auth.NewAuthUser(user)})
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username already exists")
	case errors.Is(err, service.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
	case errors.Is(err, service.ErrAdminImmutable):
		writeError(w, http.StatusBadRequest, "admin identity cannot be changed")
	default:
		h.Logger.Errorw("UpdateUser: service error", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update user")
	}
}

// DeleteUser удаляет пользователя. Админа и самого себя — нельзя.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller := h.requireAdmin(w, r)
	if caller == nil {
		return
	}
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	err = h.Users.DeleteUser(r.Context(), id, caller.ID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case errors.Is(err, service.ErrDeleteForbidden):
		writeError(w, http.StatusBadRequest, "cannot delete this user")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusBadRequest, "cannot delete this user")
	default:
		h.Logger.Errorw("DeleteUser: service error", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete user")
	}
}
