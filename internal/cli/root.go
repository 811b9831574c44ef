package cli

import (
	"context"
	"fmt"

	"call-scheduler/internal/app"
	"call-scheduler/internal/config"
	"call-scheduler/pkg/logger"

	"github.com/spf13/cobra"
)

// RootCmd returns the callsched command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "callsched",
		Short: "Smart caller & scheduler",
		Long: `callsched schedules calls by priority and time, and keeps a per-number history.

Storage is selected with STORE_DRIVER (sqlite, postgres, memory). Run
'callsched console' for the interactive menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(ConsoleCmd())
	root.AddCommand(ScheduleCmd())
	root.AddCommand(NextCmd())
	root.AddCommand(ProcessCmd())
	root.AddCommand(UpcomingCmd())
	root.AddCommand(HistoryCmd())
	root.AddCommand(ListCmd())
	root.AddCommand(SummaryCmd())
	root.AddCommand(MigrateCmd())
	root.AddCommand(TokenCmd())
	return root
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// withApp opens the store and scheduler for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	log := logger.NewCLI(verbose)

	ctx := cmdContext(cmd)
	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
