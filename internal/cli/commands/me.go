package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"KVideo/internal/cli/api"
	"KVideo/internal/config"
)

type meCmd struct{}

func (meCmd) Name() string        { return "me" }
func (meCmd) Description() string { return "Show the current user as the server sees it" }
func (meCmd) Usage() string       { return "me" }

func (meCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	token, err := loadToken()
	if err != nil {
		return err
	}
	resp, body, err := api.GetJSON(ctx, endpoint(cfg, "/auth/me"), token)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return errors.New("not authenticated (token expired or user removed)")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server error: %s", apiError(body))
	}
	var mr struct {
		User userDTO `json:"user"`
	}
	if err := json.Unmarshal(body, &mr); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Fprintln(Out, "Current user:")
	printUser(mr.User)
	return nil
}

func init() { RegisterCmd(meCmd{}) }
