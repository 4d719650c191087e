// Package commands wires the contactbook and finance cobra command trees.
package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"homebook/internal/backend"
	"homebook/internal/config"
	"homebook/internal/ledger"
	applog "homebook/internal/log"
)

// Version is stamped at build time with -ldflags "-X homebook/internal/commands.Version=...".
var Version = "dev"

// Env carries the process-wide dependencies every command needs.
type Env struct {
	Config  *config.Config
	Logger  *applog.Logger
	Factory *backend.DefaultFactory
	Now     func() time.Time
}

// NewEnv builds an Env from a validated config.
func NewEnv(cfg *config.Config, logger *applog.Logger) *Env {
	return &Env{
		Config:  cfg,
		Logger:  logger,
		Factory: backend.NewFactory(logger),
		Now:     time.Now,
	}
}

func (env *Env) backendConfig() (backend.Config, error) {
	return backend.FromAppConfig(env.Config)
}

// withLedger opens the configured ledger backend for the duration of fn.
func (env *Env) withLedger(ctx context.Context, fn func(*ledger.Engine) error) error {
	bcfg, err := env.backendConfig()
	if err != nil {
		return err
	}
	res, err := env.Factory.CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			env.Logger.Warn("Failed to close ledger backend", applog.FieldError, err)
		}
	}()
	return fn(res.Engine)
}

func newRoot(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Short:   short,
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
}

// confirm prints prompt and reports whether the answer read from in is y or yes.
// End of input counts as no.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
