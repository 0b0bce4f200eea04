package commands

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"KVideo/internal/cli/api"
	"KVideo/internal/config"
)

type usersCmd struct{}

func (usersCmd) Name() string        { return "users" }
func (usersCmd) Description() string { return "Manage users (admin only)" }
func (usersCmd) Usage() string {
	return "users list | add <username> <password> [premium] | edit <id> [flags] | rm <id>"
}

func (c usersCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	token, err := loadToken()
	if err != nil {
		return err
	}
	switch args[0] {
	case "list":
		return c.list(ctx, cfg, token, args[1:])
	case "add":
		return c.add(ctx, cfg, token, args[1:])
	case "edit":
		return c.edit(ctx, cfg, token, args[1:])
	case "rm":
		return c.rm(ctx, cfg, token, args[1:])
	default:
		return ErrUsage
	}
}

func (usersCmd) list(ctx context.Context, cfg *config.Config, token string, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	resp, body, err := api.GetJSON(ctx, endpoint(cfg, "/admin/users"), token)
	if err != nil {
		return err
	}
	if err := adminStatus(resp.StatusCode, body); err != nil {
		return err
	}
	var lr struct {
		Users []userDTO `json:"users"`
	}
	if err := json.Unmarshal(body, &lr); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	for _, u := range lr.Users {
		role := "user"
		if u.IsAdmin {
			role = "admin"
		}
		premium := "premium=off"
		if !u.DisablePremium {
			premium = "premium=on"
		}
		fmt.Fprintf(Out, "- %-4d %-20s %-6s %s\n", u.ID, u.Username, role, premium)
	}
	fmt.Fprintf(Out, "Total: %d\n", len(lr.Users))
	return nil
}

func (usersCmd) add(ctx context.Context, cfg *config.Config, token string, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return ErrUsage
	}
	req := struct {
		Username       string `json:"username"`
		Password       string `json:"password"`
		DisablePremium *bool  `json:"disablePremium,omitempty"`
	}{Username: args[0], Password: args[1]}
	if len(args) == 3 {
		if args[2] != "premium" {
			return ErrUsage
		}
		f := false
		req.DisablePremium = &f
	}
	resp, body, err := api.PostJSON(ctx, endpoint(cfg, "/admin/users"), req, token)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("username %q is already taken", req.Username)
	}
	if err := adminStatus(resp.StatusCode, body); err != nil {
		return err
	}
	var cr struct {
		User userDTO `json:"user"`
	}
	if err := json.Unmarshal(body, &cr); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Fprintln(Out, "Created:")
	printUser(cr.User)
	return nil
}

func (usersCmd) edit(ctx context.Context, cfg *config.Config, token string, args []string) error {
	fs := flag.NewFlagSet("users edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	username := fs.String("username", "", "новое имя пользователя")
	password := fs.String("password", "", "новый пароль")
	premium := fs.String("premium", "", "on|off")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return ErrUsage
	}
	id, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		return ErrUsage
	}

	req := struct {
		Username       *string `json:"username,omitempty"`
		Password       *string `json:"password,omitempty"`
		DisablePremium *bool   `json:"disablePremium,omitempty"`
	}{}
	if *username != "" {
		req.Username = username
	}
	if *password != "" {
		req.Password = password
	}
	switch *premium {
	case "":
	case "on":
		f := false
		req.DisablePremium = &f
	case "off":
		tr := true
		req.DisablePremium = &tr
	default:
		return ErrUsage
	}

	resp, body, err := api.PutJSON(ctx, endpoint(cfg, fmt.Sprintf("/admin/users/%d", id)), req, token)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("user %d not found", id)
	}
	if resp.StatusCode == http.StatusConflict {
		return errors.New("username is already taken")
	}
	if err := adminStatus(resp.StatusCode, body); err != nil {
		return err
	}
	var ur struct {
		User userDTO `json:"user"`
	}
	if err := json.Unmarshal(body, &ur); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Fprintln(Out, "Updated:")
	printUser(ur.User)
	return nil
}

func (usersCmd) rm(ctx context.Context, cfg *config.Config, token string, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return ErrUsage
	}
	resp, body, err := api.DeleteJSON(ctx, endpoint(cfg, fmt.Sprintf("/admin/users/%d", id)), token)
	if err != nil {
		return err
	}
	if err := adminStatus(resp.StatusCode, body); err != nil {
		return err
	}
	fmt.Fprintf(Out, "User %d deleted\n", id)
	return nil
}

// adminStatus переводит общие статусы админ-API в ошибки CLI.
func adminStatus(code int, body []byte) error {
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return errors.New("not authenticated")
	case http.StatusForbidden:
		return errors.New("admin access required")
	default:
		return fmt.Errorf("%s", apiError(body))
	}
}

func init() { RegisterCmd(usersCmd{}) }
