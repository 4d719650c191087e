package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"homebook/internal/config"
	applog "homebook/internal/log"
)

var fixedNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func testEnv(t *testing.T) *Env {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		ContactsFile:    filepath.Join(dir, "contacts.json"),
		LedgerBackend:   "sqlite",
		LedgerDBPath:    filepath.Join(dir, "finance.db"),
		AMQPExchange:    "homebook",
		AMQPQueue:       "ledger_events",
		GoogleSheetName: "Transactions",
		ChartDir:        filepath.Join(dir, "charts"),
		LogLevel:        "info",
	}
	require.NoError(t, cfg.Validate())

	env := NewEnv(cfg, applog.Discard())
	env.Now = func() time.Time { return fixedNow }
	return env
}

// run executes a fresh command tree with args and returns its combined output.
func run(t *testing.T, newCmd func(*Env) *cobra.Command, env *Env, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newCmd(env)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
