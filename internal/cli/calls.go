package cli

import (
	"context"
	"fmt"
	"time"

	"call-scheduler/internal/app"
	"call-scheduler/internal/calls"
	"call-scheduler/internal/console"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func ConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Start the interactive menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return console.New(a.Scheduler, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
			})
		},
	}
}

func ScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule a call",
		Long: `Schedule a call for a future time.

Examples:
  callsched schedule --name Ann --phone 5551234567 --at "2030-01-02 10:00"
  callsched schedule --name Bob --phone +445551234567 --at "2030-01-02 10:00" --type video --platform Zoom --priority 6
  callsched schedule --name Cid --phone 5559876543 --at "2030-01-02 10:00" --type emergency --category Medical`,
		RunE: runSchedule,
	}
	cmd.Flags().String("name", "", "Contact name (required)")
	cmd.Flags().String("phone", "", "Phone number (required)")
	cmd.Flags().String("at", "", "Scheduled time, "+console.InputLayout+" local time (required)")
	cmd.Flags().String("type", "voice", "Call type: voice, video or emergency")
	cmd.Flags().Int("priority", 0, "Priority 1-10 (default depends on type)")
	cmd.Flags().String("platform", "", "Video platform")
	cmd.Flags().String("category", "", "Emergency category")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func runSchedule(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	phone, _ := cmd.Flags().GetString("phone")
	rawAt, _ := cmd.Flags().GetString("at")
	rawType, _ := cmd.Flags().GetString("type")
	priority, _ := cmd.Flags().GetInt("priority")
	platform, _ := cmd.Flags().GetString("platform")
	category, _ := cmd.Flags().GetString("category")

	at, err := time.ParseInLocation(console.InputLayout, rawAt, time.Local)
	if err != nil {
		return fmt.Errorf("invalid --at %q: use %s", rawAt, console.InputLayout)
	}
	kind, ok := calls.ParseKind(rawType)
	if !ok {
		return fmt.Errorf("invalid --type %q: use voice, video or emergency", rawType)
	}
	details := platform
	if kind == calls.KindEmergency {
		details = category
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		stored, err := a.Scheduler.Schedule(ctx, calls.Build(kind, name, phone, at, priority, details))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.New(color.FgGreen).Sprint("scheduled"), stored)
		return nil
	})
}

func NextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the next call to handle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				next, ok := a.Scheduler.Next()
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "No calls scheduled!")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), next)
				return nil
			})
		},
	}
}

func ProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Mark the next call as completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				done, ok, err := a.Scheduler.ProcessNext(ctx)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "No pending calls to process!")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.New(color.FgGreen).Sprint("processed"), done)
				return nil
			})
		},
	}
}

func UpcomingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List pending calls in time order",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				list := a.Scheduler.Upcoming()
				if all {
					list = a.Scheduler.PendingCalls()
				}
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No upcoming calls!")
					return nil
				}
				console.PrintTable(cmd.OutOrStdout(), list)
				return nil
			})
		},
	}
	cmd.Flags().Bool("all", false, "Include overdue pending calls")
	return cmd
}

func HistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <phone>",
		Short: "Show every call scheduled for a number, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phone := args[0]
			if !calls.ValidatePhone(phone) {
				return fmt.Errorf("invalid phone number format: %q", phone)
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				list := a.Scheduler.History(phone)
				if len(list) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No call history found for: %s\n", phone)
					return nil
				}
				console.PrintTable(cmd.OutOrStdout(), list)
				return nil
			})
		},
	}
}

func ListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every stored call",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				rows, err := a.Scheduler.AllCalls(ctx)
				if err != nil {
					return err
				}
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No calls found in the database!")
					return nil
				}
				console.PrintTable(cmd.OutOrStdout(), rows)
				return nil
			})
		},
	}
}
