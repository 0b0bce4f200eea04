package commands

import (
	"context"
	"fmt"

	fsrepo "KVideo/internal/cli/repo/fs"
	"KVideo/internal/cli/service"
	"KVideo/internal/cli/state"
	"KVideo/internal/cli/store"
	"KVideo/internal/config"

	"go.uber.org/zap"
)

type bootCmd struct{}

func (bootCmd) Name() string        { return "boot" }
func (bootCmd) Description() string { return "Hydrate the local cache from the server" }
func (bootCmd) Usage() string       { return "boot" }

func (bootCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	token, err := loadToken()
	if err != nil {
		return err
	}
	login, err := (fsrepo.AuthFSStore{}).LoadLogin()
	if err != nil {
		return fmt.Errorf("no stored login (run: kvideo login): %w", err)
	}

	cache, dbPath, err := store.OpenForUser(login)
	if err != nil {
		return err
	}
	defer cache.Close()
	if err := cache.Migrate(); err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()

	session := &state.Session{}
	bridge := service.NewBridge(cfg, token, cache, session, logger.Sugar())
	if err := bridge.Boot(ctx); err != nil {
		return err
	}
	// ждём хвост дебаунса перед выходом процесса
	defer bridge.Syncer().Flush()

	user, _ := session.Current()
	fmt.Fprintf(Out, "Booted as %s (cache: %s)\n", user.Username, dbPath)
	for _, key := range service.BootKeys() {
		slot, _ := service.SlotForKey(key)
		v, ok, err := cache.Get(slot)
		switch {
		case err != nil:
			fmt.Fprintf(Out, "  %-18s error: %v\n", key, err)
		case ok:
			fmt.Fprintf(Out, "  %-18s %d bytes\n", key, len(v))
		default:
			fmt.Fprintf(Out, "  %-18s empty\n", key)
		}
	}
	return nil
}

func init() { RegisterCmd(bootCmd{}) }
