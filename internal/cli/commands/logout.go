package commands

import (
	"context"
	"fmt"
	"net/http"

	"KVideo/internal/cli/api"
	fsrepo "KVideo/internal/cli/repo/fs"
	"KVideo/internal/config"
)

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "End the session and drop the stored cookie" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	// Серверный logout — best effort: локальный токен сбрасывается всегда.
	if token, err := loadToken(); err == nil {
		resp, body, err := api.PostJSON(ctx, endpoint(cfg, "/auth/logout"), struct{}{}, token)
		if err != nil {
			fmt.Fprintf(Out, "warning: server logout failed: %v\n", err)
		} else if resp.StatusCode != http.StatusOK {
			fmt.Fprintf(Out, "warning: server logout failed: %s\n", apiError(body))
		}
	}
	if err := (fsrepo.AuthFSStore{}).Drop(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

func init() { RegisterCmd(logoutCmd{}) }
