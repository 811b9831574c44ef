package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

func setupEnv(t *testing.T) {
	t.Helper()
	color.NoColor = true
	t.Setenv("APP_ENV", "local")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "calls.db"))
	t.Setenv("REDIS_HOST", "")
	t.Setenv("MISSED_SWEEP_SCHEDULE", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScheduleNextProcessAcrossInvocations(t *testing.T) {
	setupEnv(t)
	at := time.Now().Add(48 * time.Hour).Format("2006-01-02 15:04")

	if out, err := run(t, "schedule", "--name", "Ann", "--phone", "5551111111", "--at", at); err != nil {
		t.Fatalf("schedule voice: %v\n%s", err, out)
	}
	out, err := run(t, "schedule", "--name", "Bob", "--phone", "5552222222", "--at", at, "--type", "emergency", "--category", "Medical")
	if err != nil {
		t.Fatalf("schedule emergency: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Emergency: Medical") {
		t.Fatalf("unexpected schedule output: %s", out)
	}

	out, err = run(t, "next")
	if err != nil || !strings.Contains(out, `contact="Bob"`) {
		t.Fatalf("expected Bob next, got %v: %s", err, out)
	}

	out, err = run(t, "process")
	if err != nil || !strings.Contains(out, "processed") {
		t.Fatalf("process: %v: %s", err, out)
	}

	out, err = run(t, "next")
	if err != nil || !strings.Contains(out, `contact="Ann"`) {
		t.Fatalf("expected Ann next after reload, got %v: %s", err, out)
	}

	out, err = run(t, "history", "5552222222")
	if err != nil || !strings.Contains(out, "COMPLETED") {
		t.Fatalf("history: %v: %s", err, out)
	}

	out, err = run(t, "summary")
	if err != nil || !strings.Contains(out, "Total: 2") {
		t.Fatalf("summary: %v: %s", err, out)
	}

	out, err = run(t, "list")
	if err != nil || !strings.Contains(out, "EMERGENCY") || !strings.Contains(out, "VOICE") {
		t.Fatalf("list: %v: %s", err, out)
	}
}

func TestScheduleRejectsBadInput(t *testing.T) {
	setupEnv(t)
	if _, err := run(t, "schedule", "--name", "Ann", "--phone", "5551111111", "--at", "tomorrow"); err == nil {
		t.Fatalf("expected bad time error")
	}
	at := time.Now().Add(time.Hour).Format("2006-01-02 15:04")
	if _, err := run(t, "schedule", "--name", "Ann", "--phone", "5551111111", "--at", at, "--type", "fax"); err == nil {
		t.Fatalf("expected bad type error")
	}
	if _, err := run(t, "schedule", "--name", "Ann", "--phone", "55", "--at", at); err == nil {
		t.Fatalf("expected invalid phone error")
	}
	if _, err := run(t, "history", "abc"); err == nil {
		t.Fatalf("expected invalid phone error")
	}
}

func TestMigrateAndEmptyStore(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "migrate")
	if err != nil || !strings.Contains(out, "schema ready (sqlite)") {
		t.Fatalf("migrate: %v: %s", err, out)
	}
	out, err = run(t, "list")
	if err != nil || !strings.Contains(out, "No calls found in the database!") {
		t.Fatalf("list: %v: %s", err, out)
	}
	out, err = run(t, "process")
	if err != nil || !strings.Contains(out, "No pending calls to process!") {
		t.Fatalf("process: %v: %s", err, out)
	}
}

func TestConsoleCommandReadsStdin(t *testing.T) {
	setupEnv(t)
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("2\n9\n"))
	root.SetArgs([]string{"console"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("console: %v", err)
	}
	if !strings.Contains(out.String(), "No calls scheduled!") {
		t.Fatalf("unexpected console output: %s", out.String())
	}
}

func TestTokenRequiresSecret(t *testing.T) {
	setupEnv(t)
	t.Setenv("JWT_SECRET", "")
	if _, err := run(t, "token"); err == nil {
		t.Fatalf("expected missing secret error")
	}
	t.Setenv("JWT_SECRET", "secret")
	out, err := run(t, "token", "--operator", "dispatcher")
	if err != nil || !strings.Contains(out, "access_token:") {
		t.Fatalf("token: %v: %s", err, out)
	}
}
