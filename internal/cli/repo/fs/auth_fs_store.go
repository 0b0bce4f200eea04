package fs

import (
	"errors"
	"os"
	"path/filepath"

	"KVideo/internal/cli/repo"
)

// AuthFSStore — файловое хранилище токена и контекста пользователя для CLI.
type AuthFSStore struct{}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "KVideo")
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func tokenPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "auth_token"), nil
}

func lastLoginPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "last_login"), nil
}

// trimTrailingSpace обрезает завершающие переводы строки/пробелы
func trimTrailingSpace(b []byte) []byte {
	for len(b) > 0 {
		c := b[len(b)-1]
		if c == '\n' || c == '\r' || c == ' ' || c == '\t' {
			b = b[:len(b)-1]
			continue
		}
		break
	}
	return b
}

// Save сохраняет auth‑токен в файл.
func (AuthFSStore) Save(token string) error {
	p, err := tokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(token), 0o600)
}

// Load читает auth‑токен из файла.
func (AuthFSStore) Load() (string, error) {
	p, err := tokenPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	b = trimTrailingSpace(b)
	if len(b) == 0 {
		return "", errors.New("empty token file")
	}
	return string(b), nil
}

// Drop удаляет сохранённый токен (logout).
func (AuthFSStore) Drop() error {
	p, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SaveLogin сохраняет логин пользователя в файл.
func (AuthFSStore) SaveLogin(login string) error {
	if login == "" {
		return errors.New("empty login")
	}
	p, err := lastLoginPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(login), 0o600)
}

// LoadLogin читает логин пользователя из файла.
func (AuthFSStore) LoadLogin() (string, error) {
	p, err := lastLoginPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	b = trimTrailingSpace(b)
	if len(b) == 0 {
		return "", errors.New("no stored login")
	}
	return string(b), nil
}

var (
	_ repo.TokenStore       = AuthFSStore{}
	_ repo.UserContextStore = AuthFSStore{}
)
