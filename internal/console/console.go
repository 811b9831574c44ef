package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"call-scheduler/internal/calls"
	"call-scheduler/internal/scheduler"

	"github.com/fatih/color"
)

// InputLayout is the accepted scheduled time format, read in local time.
const InputLayout = "2006-01-02 15:04"

var (
	heading = color.New(color.FgHiMagenta, color.Bold)
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	failure = color.New(color.FgRed)
)

// Console is the interactive menu over a Scheduler.
type Console struct {
	sched *scheduler.Scheduler
	in    *bufio.Scanner
	out   io.Writer
	loc   *time.Location
}

func New(s *scheduler.Scheduler, in io.Reader, out io.Writer) *Console {
	return &Console{sched: s, in: bufio.NewScanner(in), out: out, loc: time.Local}
}

// Run shows the menu until the operator exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	heading.Fprintln(c.out, "=== Smart Caller & Scheduler ===")
	fmt.Fprintln(c.out, "Welcome to your personal call management system!")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.menu()
		choice, err := c.readInt("Enter your choice: ")
		if err != nil {
			return eofIsDone(err)
		}

		switch choice {
		case 1:
			err = c.schedule(ctx)
		case 2:
			c.next()
		case 3:
			err = c.process(ctx)
		case 4:
			c.upcoming()
		case 5:
			err = c.history()
		case 6:
			c.listAll(ctx)
		case 7:
			c.undo(ctx)
		case 8:
			c.redo(ctx)
		case 9:
			fmt.Fprintln(c.out, "Thank you for using Smart Caller & Scheduler!")
			return nil
		default:
			warning.Fprintln(c.out, "Invalid choice! Please try again.")
		}
		if err != nil {
			return eofIsDone(err)
		}
	}
}

func eofIsDone(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Console) menu() {
	heading.Fprintln(c.out, "\n=== MAIN MENU ===")
	for i, item := range []string{
		"Schedule New Call",
		"View Next Call",
		"Process Next Call",
		"View Upcoming Calls",
		"View Call History by Phone Number",
		"View All Calls in Database",
		"Undo Last Action",
		"Redo Last Action",
		"Exit",
	} {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, item)
	}
	fmt.Fprintln(c.out, "=================")
}

func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) readInt(prompt string) (int, error) {
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		warning.Fprintln(c.out, "Please enter a valid number!")
	}
}

func (c *Console) schedule(ctx context.Context) error {
	heading.Fprintln(c.out, "\n--- Schedule New Call ---")
	name, err := c.readLine("Enter contact name: ")
	if err != nil {
		return err
	}
	phone, err := c.readLine("Enter phone number: ")
	if err != nil {
		return err
	}
	raw, err := c.readLine("Enter scheduled time (yyyy-MM-dd HH:mm): ")
	if err != nil {
		return err
	}
	at, perr := time.ParseInLocation(InputLayout, raw, c.loc)
	if perr != nil {
		failure.Fprintln(c.out, "Invalid date format! Please use yyyy-MM-dd HH:mm")
		return nil
	}

	fmt.Fprintln(c.out, "Select call type:\n1. Voice Call\n2. Video Call\n3. Emergency Call")
	kind, err := c.readInt("Enter choice: ")
	if err != nil {
		return err
	}

	var call calls.Call
	switch kind {
	case 1:
		call = calls.NewVoice(name, phone, at)
	case 2:
		platform, err := c.readLine("Enter video platform: ")
		if err != nil {
			return err
		}
		priority, err := c.readInt("Enter priority (1-10): ")
		if err != nil {
			return err
		}
		call = calls.NewVideo(name, phone, at, platform).WithPriority(priority)
	case 3:
		category, err := c.readLine("Enter emergency type: ")
		if err != nil {
			return err
		}
		call = calls.NewEmergency(name, phone, at, category)
	default:
		warning.Fprintln(c.out, "Invalid call type! Defaulting to Voice Call.")
		call = calls.NewVoice(name, phone, at)
	}

	stored, err := c.sched.Schedule(ctx, call)
	if err != nil {
		failure.Fprintf(c.out, "Error scheduling call: %v\n", err)
		return nil
	}
	success.Fprintf(c.out, "Call scheduled successfully! ID: %d\n", stored.ID)
	return nil
}

func (c *Console) next() {
	heading.Fprintln(c.out, "\n--- Next Call ---")
	call, ok := c.sched.Next()
	if !ok {
		fmt.Fprintln(c.out, "No calls scheduled!")
		return
	}
	fmt.Fprintln(c.out, "Next scheduled call:")
	fmt.Fprintln(c.out, call)
}

func (c *Console) process(ctx context.Context) error {
	heading.Fprintln(c.out, "\n--- Process Next Call ---")
	call, ok := c.sched.Next()
	if !ok {
		failure.Fprintln(c.out, "No pending calls to process!")
		return nil
	}
	fmt.Fprintln(c.out, "Next call to process:")
	fmt.Fprintln(c.out, call)

	answer, err := c.readLine("Do you want to mark this call as COMPLETED? (yes/no): ")
	if err != nil {
		return err
	}
	if a := strings.ToLower(answer); a != "yes" && a != "y" {
		fmt.Fprintln(c.out, "Call processing cancelled.")
		return nil
	}

	done, ok, perr := c.sched.ProcessNext(ctx)
	switch {
	case perr != nil:
		failure.Fprintf(c.out, "Failed to process call: %v\n", perr)
	case !ok:
		failure.Fprintln(c.out, "No pending calls to process!")
	default:
		success.Fprintln(c.out, "Successfully processed call:")
		fmt.Fprintln(c.out, done)
	}
	return nil
}

func (c *Console) upcoming() {
	heading.Fprintln(c.out, "\n--- Upcoming Calls ---")
	list := c.sched.Upcoming()
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No upcoming calls!")
		return
	}
	fmt.Fprintf(c.out, "Upcoming calls (%d):\n", len(list))
	printNumbered(c.out, list)
}

func (c *Console) history() error {
	heading.Fprintln(c.out, "\n--- Call History ---")
	phone, err := c.readLine("Enter phone number to search: ")
	if err != nil {
		return err
	}
	list := c.sched.History(phone)
	if len(list) == 0 {
		fmt.Fprintf(c.out, "No call history found for: %s\n", phone)
		return nil
	}
	fmt.Fprintf(c.out, "Call history for %s:\n", phone)
	printNumbered(c.out, list)
	return nil
}

func (c *Console) listAll(ctx context.Context) {
	heading.Fprintln(c.out, "\n--- All Calls in Database ---")
	rows, err := c.sched.AllCalls(ctx)
	if err != nil {
		failure.Fprintf(c.out, "Error fetching calls from database: %v\n", err)
		return
	}
	if len(rows) == 0 {
		fmt.Fprintln(c.out, "No calls found in the database!")
		return
	}
	fmt.Fprintf(c.out, "Total calls in database: %d\n", len(rows))
	PrintTable(c.out, rows)
}

func (c *Console) undo(ctx context.Context) {
	heading.Fprintln(c.out, "\n--- Undo Last Action ---")
	a, err := c.sched.Undo(ctx)
	reportAction(c.out, "Undid", a, err)
}

func (c *Console) redo(ctx context.Context) {
	heading.Fprintln(c.out, "\n--- Redo Last Action ---")
	a, err := c.sched.Redo(ctx)
	reportAction(c.out, "Redid", a, err)
}

func reportAction(w io.Writer, verb string, a scheduler.Action, err error) {
	switch {
	case errors.Is(err, scheduler.ErrNothingToUndo):
		warning.Fprintln(w, "Nothing to undo!")
	case errors.Is(err, scheduler.ErrNothingToRedo):
		warning.Fprintln(w, "Nothing to redo!")
	case err != nil:
		failure.Fprintf(w, "Error: %v\n", err)
	default:
		success.Fprintf(w, "%s scheduling of call for %s (ID: %d)\n", verb, a.Call.ContactName, a.Call.ID)
	}
}

func printNumbered(w io.Writer, list []calls.Call) {
	for i, call := range list {
		fmt.Fprintf(w, "%d. %s\n", i+1, call)
	}
}
