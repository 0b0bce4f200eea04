package handlers

import (
	"KVideo/internal/auth"
	"KVideo/internal/config"
	"KVideo/internal/middleware"
	"KVideo/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// AuthHandler обрабатывает вход, выход, текущего пользователя и смену пароля.
type AuthHandler struct {
	Users    *service.UserService
	Resolver *auth.Resolver
	Tokens   *auth.TokenService
	Logger   *zap.SugaredLogger
	Config   *config.Config
}

func NewAuthHandler(users *service.UserService, resolver *auth.Resolver, tokens *auth.TokenService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Users: users, Resolver: resolver, Tokens: tokens, Logger: logger, Config: cfg}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login проверяет учётные данные, выпускает токен и ставит auth‑cookie.
// Токен перевыпускается на каждый успешный вход; старые сессии того же
// пользователя остаются действительными до истечения срока.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrMissingFields) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.Logger.Errorw("Login: service error", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		h.Logger.Errorw("Login: token issue failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	middleware.SetLoginCookie(w, token, h.Config.EnableHTTPS)

	writeJSON(w, http.StatusOK, map[string]any{"user": auth.NewAuthUser(user)})
}

// Logout затирает auth‑cookie. Сам токен остаётся валидным до истечения срока
// (stateless‑модель, без списка отзыва).
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Me возвращает текущего пользователя. Identity всегда перечитывается из
// хранилища: удалённый пользователь получает 401 несмотря на валидный токен.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := resolveUser(r, h.Resolver)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		h.Logger.Errorw("Me: resolve failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword меняет собственный пароль после перепроверки текущего.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, err := resolveUser(r, h.Resolver)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.Users.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "current and new password are required")
	case errors.Is(err, service.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, "new password must be at least 6 characters")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "current password is incorrect")
	default:
		h.Logger.Errorw("ChangePassword: service error", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to change password")
	}
}
