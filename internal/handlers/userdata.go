package handlers

import (
	"KVideo/internal/auth"
	"KVideo/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// UserDataHandler — чтение/запись бакетов пользовательских данных.
type UserDataHandler struct {
	Data     *service.UserDataService
	Resolver *auth.Resolver
	Logger   *zap.SugaredLogger
}

func NewUserDataHandler(data *service.UserDataService, resolver *auth.Resolver, logger *zap.SugaredLogger) *UserDataHandler {
	return &UserDataHandler{Data: data, Resolver: resolver, Logger: logger}
}

// Get отдаёт бакет по ключу из query. Отсутствующий бакет — пустой объект.
func (h *UserDataHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := resolveUser(r, h.Resolver)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	key := r.URL.Query().Get("key")
	data, err := h.Data.Get(r.Context(), user.ID, key)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"data": data})
	case errors.Is(err, service.ErrInvalidDataKey):
		writeError(w, http.StatusBadRequest, "invalid data key")
	default:
		h.Logger.Errorw("UserData Get: service error", "user_id", user.ID, "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load data")
	}
}

type putDataRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Put перезаписывает бакет целиком значением из тела запроса.
func (h *UserDataHandler) Put(w http.ResponseWriter, r *http.Request) {
	user, err := resolveUser(r, h.Resolver)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req putDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.Data.Set(r.Context(), user.ID, req.Key, req.Value)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case errors.Is(err, service.ErrInvalidDataKey):
		writeError(w, http.StatusBadRequest, "invalid data key")
	default:
		h.Logger.Errorw("UserData Put: service error", "user_id", user.ID, "key", req.Key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save data")
	}
}
