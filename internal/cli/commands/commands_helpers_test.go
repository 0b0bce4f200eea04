package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	fsrepo "KVideo/internal/cli/repo/fs"
	"KVideo/internal/config"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы артефакты (токен/логин/кэш) создавались в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	db := filepath.Join(dir, "db")
	_ = os.MkdirAll(db, 0o700)
	t.Setenv("CLIENT_DB_PATH", db)
	return dir
}

// withAuth дополнительно кладёт токен и логин, как после успешного login.
func withAuth(t *testing.T) {
	t.Helper()
	withTempConfig(t)
	if err := (fsrepo.AuthFSStore{}).Save("tok-test"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if err := (fsrepo.AuthFSStore{}).SaveLogin("alice"); err != nil {
		t.Fatalf("save login: %v", err)
	}
}

// fakeCmd позволяет управлять возвратом ошибок из Run
type fakeCmd struct {
	name, usage, desc string
	run               func(ctx context.Context, cfg *config.Config, args []string) error
}

func (f fakeCmd) Name() string        { return f.name }
func (f fakeCmd) Description() string { return f.desc }
func (f fakeCmd) Usage() string       { return f.usage }
func (f fakeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	return f.run(ctx, cfg, args)
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}
