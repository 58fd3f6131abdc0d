package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "expenses.txt")
	t.Setenv("DATA_BACKEND", "file")
	t.Setenv("EXPENSES_FILE", path)
	t.Setenv("AMQP_URL", "")
	t.Setenv("PORT", "8081")
	t.Setenv("LOG_LEVEL", "error")
	return path
}

func TestOneShotCommands(t *testing.T) {
	path := setupEnv(t)
	var stdout, stderr bytes.Buffer

	if code := run([]string{"add", "4.50", "Groceries", "2024-03-01", "Coffee", "beans"}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("add exit %d: %s", code, stderr.String())
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "Coffee beans|4.5|Groceries|2024-03-01\n" {
		t.Fatalf("file = %q err=%v", data, err)
	}

	stdout.Reset()
	if code := run([]string{"total", "All"}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("total exit %d: %s", code, stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != "Total Expenses: $4.50" {
		t.Fatalf("total output = %q", got)
	}
}

func TestUsageErrors(t *testing.T) {
	setupEnv(t)
	var stdout, stderr bytes.Buffer

	if code := run([]string{"frobnicate"}, nil, &stdout, &stderr); code != 2 {
		t.Fatalf("exit = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Fatalf("expected usage on stderr: %q", stderr.String())
	}

	stdout.Reset()
	if code := run([]string{"help"}, nil, &stdout, &stderr); code != 0 || !strings.Contains(stdout.String(), "serve") {
		t.Fatalf("help exit=%d out=%q", code, stdout.String())
	}
}

func TestShellSession(t *testing.T) {
	setupEnv(t)
	var stdout, stderr bytes.Buffer
	in := strings.NewReader("add 2 Other 2024-01-01 pen\ntotal Other\nquit\n")

	if code := run(nil, in, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Total Expenses: $2.00") {
		t.Fatalf("unexpected output: %q", stdout.String())
	}
}

func TestInvalidConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("DATA_BACKEND", "postgres")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"list"}, nil, &stdout, &stderr); code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
}
