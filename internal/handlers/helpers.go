package handlers

import (
	"KVideo/internal/auth"
	"KVideo/internal/middleware"
	"encoding/json"
	"net/http"
)

// writeJSON сериализует v в тело ответа с данным статусом.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError — структурная ошибка для API‑поверхности.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// resolveUser перечитывает текущего пользователя из хранилища по клеймам
// из контекста. Токен здесь уже проверен перехватчиком; отказ означает,
// что учётной записи больше нет.
func resolveUser(r *http.Request, resolver *auth.Resolver) (*auth.AuthUser, error) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		return nil, auth.ErrNotAuthenticated
	}
	return resolver.CurrentUser(r.Context(), claims)
}
