package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"KVideo/internal/cli/api"
	fsrepo "KVideo/internal/cli/repo/fs"
	"KVideo/internal/cli/store"
	"KVideo/internal/config"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Log in and store the session cookie" }
func (loginCmd) Usage() string       { return "login <username> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	username, password := args[0], args[1]

	resp, body, err := api.PostJSON(ctx, endpoint(cfg, "/auth/login"), loginRequest{Username: username, Password: password}, "")
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return errors.New("invalid username or password")
	default:
		return fmt.Errorf("server error: %s", apiError(body))
	}

	if err := api.PersistAuthFromResponse(resp); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	if err := (fsrepo.AuthFSStore{}).SaveLogin(username); err != nil {
		return fmt.Errorf("saving login: %w", err)
	}

	// Локальный кэш чистится при каждом входе: данные предыдущей
	// сессии не должны пережить смену пользователя.
	cache, _, err := store.OpenForUser(username)
	if err != nil {
		return err
	}
	defer cache.Close()
	if err := cache.Migrate(); err != nil {
		return err
	}
	if err := cache.Clear(); err != nil {
		return err
	}

	var lr struct {
		User userDTO `json:"user"`
	}
	if err := json.Unmarshal(body, &lr); err == nil && lr.User.Username != "" {
		fmt.Fprintf(Out, "Logged in as %s\n", lr.User.Username)
	} else {
		fmt.Fprintln(Out, "Logged in")
	}
	return nil
}

func init() { RegisterCmd(loginCmd{}) }
