package middleware

import (
	"KVideo/internal/auth"
	"KVideo/internal/config"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ctxKey string

const claimsCtxKey ctxKey = "auth_claims"

// publicPaths — явный allow-list: только страница логина и сам логин.
var publicPaths = []string{
	"/login",
	"/auth/login",
}

// isPublicPath — путь из allow-list, пропускается без каких-либо проверок.
func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// isStaticAsset — эвристика для файлов статики. Точка в пути намеренно
// трактуется как признак ассета (style.css, app.js и т.п.).
func isStaticAsset(path string) bool {
	return strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/favicon") ||
		strings.Contains(path, ".")
}

// isAPIPath отделяет API‑запросы (структурный 401/403) от страниц (редирект).
func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/auth/") ||
		strings.HasPrefix(path, "/user/") ||
		strings.HasPrefix(path, "/admin/users") ||
		path == "/config"
}

// isAdminPath — админский namespace: и страницы, и API.
func isAdminPath(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

// WithAuth — перехватчик маршрутов. Выполняется ДО любой логики хендлеров:
// классифицирует путь, проверяет cookie‑токен и либо отсекает запрос,
// либо кладёт проверенные клеймы в контекст.
//
// Админский шлагбаум здесь работает по клеймам токена; свежую роль хендлеры
// дополнительно перечитывают через auth.Resolver.
func WithAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			// 1. Публичные пути и статика — мимо всех проверок
			if isPublicPath(path) || isStaticAsset(path) {
				next.ServeHTTP(w, r)
				return
			}

			// 2. Нет cookie — отказ без деталей
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" {
				rejectUnauthenticated(w, r, false)
				return
			}

			// 3. Невалидный/истёкший токен — отказ, неотличимый от "нет cookie",
			// плюс сброс протухшей cookie на редиректе
			claims, err := tokens.Verify(cookie.Value)
			if err != nil {
				rejectUnauthenticated(w, r, true)
				return
			}

			// 4. Админский namespace без админского клейма
			if isAdminPath(path) && !claims.IsAdmin {
				if isAPIPath(path) {
					writeJSONError(w, http.StatusForbidden, "forbidden")
					return
				}
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			// 5. Пропускаем дальше, клеймы — в контекст
			ctx := context.WithValue(r.Context(), claimsCtxKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

func rejectUnauthenticated(w http.ResponseWriter, r *http.Request, clearCookie bool) {
	if isAPIPath(r.URL.Path) {
		writeJSONError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if clearCookie {
		ClearLoginCookie(w)
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// GetClaimsFromContext достаёт проверенные клеймы, положенные WithAuth.
func GetClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// SetLoginCookie ставит auth‑cookie: HTTP-only, SameSite=Lax, Secure в проде.
func SetLoginCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(config.TokenLifetime.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearLoginCookie затирает auth‑cookie.
func ClearLoginCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
