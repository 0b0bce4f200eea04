package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	fsrepo "KVideo/internal/cli/repo/fs"
	"KVideo/internal/config"
)

// endpoint склеивает адрес сервера с путём API.
func endpoint(cfg *config.Config, path string) string {
	return strings.TrimRight(cfg.ServerURL, "/") + path
}

// loadToken возвращает сохранённый токен сессии.
func loadToken() (string, error) {
	token, err := (fsrepo.AuthFSStore{}).Load()
	if err != nil {
		return "", fmt.Errorf("not logged in (run: kvideo login): %w", err)
	}
	return token, nil
}

// apiError достаёт поле error из тела ответа; без него — сырой текст.
func apiError(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

// userDTO — пользователь в ответах шлюза.
type userDTO struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	IsAdmin        bool   `json:"isAdmin"`
	DisablePremium bool   `json:"disablePremium"`
	CreatedAt      string `json:"createdAt"`
}

func printUser(u userDTO) {
	fmt.Fprintf(Out, "  id:       %d\n", u.ID)
	fmt.Fprintf(Out, "  username: %s\n", u.Username)
	fmt.Fprintf(Out, "  admin:    %v\n", u.IsAdmin)
	fmt.Fprintf(Out, "  premium:  %v\n", !u.DisablePremium)
	if u.CreatedAt != "" {
		fmt.Fprintf(Out, "  created:  %s\n", u.CreatedAt)
	}
}
