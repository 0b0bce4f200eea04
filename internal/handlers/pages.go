package handlers

import (
	"net/http"
)

// PageHandler отдаёт минимальные страничные оболочки: редиректам
// перехватчика нужно куда-то приземляться.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

const loginPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>KVideo — Login</title></head>
<body>
<form method="post" action="/auth/login" id="login">
  <input name="username" placeholder="username" autocomplete="username">
  <input name="password" type="password" placeholder="password" autocomplete="current-password">
  <button type="submit">Login</button>
</form>
</body>
</html>
`

func (PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(loginPage))
}

func (PageHandler) RootPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<!DOCTYPE html><html><body>KVideo</body></html>\n"))
}

func (PageHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<!DOCTYPE html><html><body>KVideo admin</body></html>\n"))
}
