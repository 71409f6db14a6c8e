package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"bookshelf/internal/store"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	code := exitCode(os.Args[1:], logger)
	_ = logger.Sync()
	os.Exit(code)
}

// exitCode runs the command and maps its outcome to a process exit code,
// leaving os.Exit to main so deferred cleanup always runs.
func exitCode(args []string, logger *zap.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, args, logger); err != nil {
		logger.Error("migrate failed", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, args []string, logger *zap.Logger) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	// create only writes a file, no database needed
	if cfg.Command == "create" {
		if err := goose.Create(nil, cfg.Dir, cfg.Name, "sql"); err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		logger.Info("migration created", zap.String("name", cfg.Name), zap.String("dir", cfg.Dir))
		return nil
	}

	conn, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	switch cfg.Command {
	case "up":
		if err := store.Migrate(ctx, conn); err != nil {
			return err
		}
		logger.Info("migrations applied")
	case "down":
		if err := store.Rollback(ctx, conn); err != nil {
			return err
		}
		logger.Info("migration rolled back")
	case "status":
		statuses, err := store.Status(ctx, conn)
		if err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		printStatus(os.Stdout, statuses)
	default:
		return fmt.Errorf("unknown command %q, use: up, down, status, create", cfg.Command)
	}
	return nil
}

func printStatus(out io.Writer, statuses []*goose.MigrationStatus) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
	for _, s := range statuses {
		applied := "-"
		if !s.AppliedAt.IsZero() {
			applied = s.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
	}
	_ = tw.Flush()
}
