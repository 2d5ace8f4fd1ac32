package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pos2cmine/core/apierr"
	"pos2cmine/core/config"
	"pos2cmine/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// flags holds the command line switches that are not configuration values.
var flags struct {
	verbosity     int
	test          string
	format        string
	one           bool
	purge         bool
	deleteOrphans bool
	dryRun        bool
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "pos2cmine",
	Short: "Mirror PoS solutions into CMINE ventures",
	Long: `pos2cmine reads every solution of the DRIVER+ Portfolio of Solutions and
creates or updates one venture per solution on a CMINE instance.

Ventures are matched by title. A venture is updated only when the solution
changed after the venture's last update. Ventures without a matching solution
are reported, and deleted with --delete-orphans.

Connection settings are read from flags, environment variables or a .env file.

Examples:
  # Sync everything
  pos2cmine

  # Show what would happen
  pos2cmine --dry-run -v

  # Sync a single solution
  pos2cmine --one

  # Delete every venture of the owner
  pos2cmine --delete

  # Print the venture list as YAML
  pos2cmine --test ventures --format yaml`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	f := RootCmd.Flags()
	f.String("pos-url", "", "PoS base URL (env POS_URL)")
	f.String("cmine-url", "", "CMINE base URL (env CMINE_URL)")
	f.String("cmine-email", "", "CMINE admin email (env CMINE_EMAIL)")
	f.String("cmine-password", "", "CMINE admin password (env CMINE_PASSWORD)")
	f.String("cmine-owner", "", "email of the CMINE user owning the ventures (env CMINE_OWNER)")
	f.String("cmine-client-id", "", "CMINE OAuth application UID (env CMINE_CLIENT_ID)")
	f.String("cmine-client-secret", "", "CMINE OAuth application secret (env CMINE_CLIENT_SECRET)")

	f.CountVarP(&flags.verbosity, "verbose", "v", "increase verbosity (-v requests, -vv payloads, -vvv raw PoS pages)")
	f.StringVarP(&flags.test, "test", "t", "", "run a diagnostic probe instead of syncing: "+probeNames())
	f.StringVar(&flags.format, "format", formatJSON, "probe output format (json, yaml)")
	f.BoolVar(&flags.one, "one", false, "process a single solution (or delete a single venture with --delete)")
	f.BoolVar(&flags.purge, "delete", false, "delete every venture of the owner instead of syncing")
	f.BoolVar(&flags.deleteOrphans, "delete-orphans", false, "delete ventures that no longer match a solution")
	f.BoolVar(&flags.dryRun, "dry-run", false, "log decisions without creating, updating or deleting")

	RootCmd.MarkFlagsMutuallyExclusive("delete", "delete-orphans")
	RootCmd.MarkFlagsMutuallyExclusive("delete", "test")
}

// Execute runs the root command and exits with status 1 on failure.
// Interrupt and SIGTERM cancel the run context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		var missing *config.MissingError
		if errors.As(err, &missing) {
			fmt.Fprintln(os.Stderr, RootCmd.UsageString())
		}
		logFailure(err)
		os.Exit(1)
	}
}

// logFailure reports err once, with the HTTP response details when there are any.
func logFailure(err error) {
	// Console encoding and the development config give readable ISO8601 timestamps.
	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	fields := []zap.Field{zap.Error(err)}
	var respErr *apierr.ResponseError
	if errors.As(err, &respErr) {
		fields = append(fields, zap.Object("response", respErr))
	}
	l.Error("command failed", fields...)
	_ = l.Sync()
}
