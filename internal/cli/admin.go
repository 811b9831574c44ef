package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"call-scheduler/internal/app"
	"call-scheduler/internal/auth"
	"call-scheduler/internal/calls"
	"call-scheduler/internal/reporting"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func SummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarise stored calls by status and type",
		RunE:  runSummary,
	}
	cmd.Flags().String("phone", "", "Only count calls for this number")
	cmd.Flags().String("from", "", "Only count calls scheduled at or after this RFC3339 time")
	cmd.Flags().String("to", "", "Only count calls scheduled before this RFC3339 time")
	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
	var req reporting.SummaryRequest
	req.PhoneNumber, _ = cmd.Flags().GetString("phone")
	for _, f := range []struct {
		name string
		dst  *time.Time
	}{{"from", &req.Range.From}, {"to", &req.Range.To}} {
		v, _ := cmd.Flags().GetString(f.name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fmt.Errorf("invalid --%s %q: use RFC3339", f.name, v)
		}
		*f.dst = t
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		sum, err := a.Reports.Summary(ctx, req)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		bold := color.New(color.Bold).Sprint
		fmt.Fprintf(out, "%s %d\n", bold("Total:"), sum.TotalCalls)
		fmt.Fprintf(out, "  pending   %d (overdue %d)\n", sum.PendingCalls, sum.OverdueCalls)
		fmt.Fprintf(out, "  completed %d\n", sum.CompletedCalls)
		fmt.Fprintf(out, "  missed    %d\n", sum.MissedCalls)

		kinds := make([]calls.Kind, 0, len(sum.ByType))
		for k := range sum.ByType {
			kinds = append(kinds, k)
		}
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
		fmt.Fprintln(out, bold("By type:"))
		for _, k := range kinds {
			fmt.Fprintf(out, "  %-10s %d\n", k.Label(), sum.ByType[k])
		}
		fmt.Fprintf(out, "%s %.1f\n", bold("Average priority:"), sum.AveragePriority)
		return nil
	})
}

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the calls schema in the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, closeStore, err := app.OpenStore(cmdContext(cmd), cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema ready (%s)\n", color.New(color.FgGreen).Sprint("✓"), cfg.Store.Driver)
			return nil
		},
	}
}

func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token pair for an operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			operator, _ := cmd.Flags().GetString("operator")
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateHTTP(); err != nil {
				return err
			}
			m, err := auth.NewManager(cfg.Auth)
			if err != nil {
				return err
			}
			pair, err := m.IssuePair(time.Now(), operator)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "access_token:  %s\n", pair.AccessToken)
			fmt.Fprintf(out, "refresh_token: %s\n", pair.RefreshToken)
			fmt.Fprintf(out, "expires_at:    %s\n", pair.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().String("operator", "operator", "Operator name stored in the token subject")
	return cmd
}
