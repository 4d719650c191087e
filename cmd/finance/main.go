package main

import (
	"os"

	"homebook/internal/cli"
	"homebook/internal/commands"
	applog "homebook/internal/log"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(cli.SetupLogger("info", os.Stderr), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg.LogLevel, os.Stderr).WithComponent(applog.ComponentLedger)

	if err := commands.NewFinanceCommand(commands.NewEnv(cfg, logger)).Execute(); err != nil {
		os.Exit(1)
	}
}
