// Command app runs the approved BOM report from a terminal. With no arguments
// it starts the interactive browser; otherwise it runs a one-shot command.
package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"bizadmin/internal/adapters/cli"
	"bizadmin/internal/adapters/repl"
	"bizadmin/internal/app"
	"bizadmin/internal/config"
	"bizadmin/internal/core"
	"bizadmin/internal/db"
	"bizadmin/internal/logging"
)

func main() {
	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Logs go to stderr so report output on stdout stays clean.
	logger, err := logging.NewLogger(cfg.Env, "warn")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("Unable to connect to database: %s", logging.SanitizeError(err))
	}
	defer pool.Close()

	source := core.NewPostgresBOMSource(pool)
	reports := core.NewApprovedBOMService(source, cfg.Report.ChunkSize, logger)
	svc := app.NewAppService(reports, source, cfg.DefaultOrganizationID, cfg.Report.PageSize, logger)

	if len(os.Args) < 2 {
		if err := repl.Run(ctx, svc, bufio.NewReader(os.Stdin), os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := cli.Run(ctx, svc, os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}
