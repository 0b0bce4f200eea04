package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"KVideo/internal/cli/api"
	"KVideo/internal/config"
)

type dataCmd struct{}

func (dataCmd) Name() string        { return "data" }
func (dataCmd) Description() string { return "Read or write a user data bucket on the server" }
func (dataCmd) Usage() string       { return "data get <key> | set <key> <json>" }

func (c dataCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	token, err := loadToken()
	if err != nil {
		return err
	}
	switch args[0] {
	case "get":
		return c.get(ctx, cfg, token, args[1:])
	case "set":
		return c.set(ctx, cfg, token, args[1:])
	default:
		return ErrUsage
	}
}

func (dataCmd) get(ctx context.Context, cfg *config.Config, token string, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	u := endpoint(cfg, "/user/data") + "?key=" + url.QueryEscape(args[0])
	resp, body, err := api.GetJSON(ctx, u, token)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("unknown data key %q", args[0])
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s", apiError(body))
	}
	var dr struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &dr); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Fprintln(Out, string(dr.Data))
	return nil
}

func (dataCmd) set(ctx context.Context, cfg *config.Config, token string, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	if !json.Valid([]byte(args[1])) {
		return errors.New("value must be valid JSON")
	}
	req := struct {
		Key   string          `json:"key"`
		Value json.RawMessage `json:"value"`
	}{Key: args[0], Value: json.RawMessage(args[1])}
	resp, body, err := api.PutJSON(ctx, endpoint(cfg, "/user/data"), req, token)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("%s", apiError(body))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s", apiError(body))
	}
	fmt.Fprintf(Out, "Saved %s\n", args[0])
	return nil
}

func init() { RegisterCmd(dataCmd{}) }
