package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"KVideo/internal/cli/api"
	"KVideo/internal/config"
)

type passwdRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type passwdCmd struct{}

func (passwdCmd) Name() string        { return "passwd" }
func (passwdCmd) Description() string { return "Change own password" }
func (passwdCmd) Usage() string       { return "passwd <current> <new>" }

func (passwdCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	token, err := loadToken()
	if err != nil {
		return err
	}
	req := passwdRequest{CurrentPassword: args[0], NewPassword: args[1]}
	resp, body, err := api.PutJSON(ctx, endpoint(cfg, "/auth/password"), req, token)
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Fprintln(Out, "Password changed")
		return nil
	case http.StatusUnauthorized:
		return errors.New("current password is wrong")
	default:
		return fmt.Errorf("%s", apiError(body))
	}
}

func init() { RegisterCmd(passwdCmd{}) }
