package git

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestClient_Lock(t *testing.T) {
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, nil)

	unlock, err := client.Lock()
	if err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}

	lockPath := filepath.Join(tmpDir, DefaultLockName)
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		t.Error("Lock file not created")
	}

	// A second holder times out while the first one holds the lock.
	contender := NewClient(tmpDir, nil)
	contender.LockTimeout = 30 * time.Millisecond
	if _, err := contender.Lock(); !errors.Is(err, ErrLockTimeout) {
		t.Errorf("expected ErrLockTimeout, got %v", err)
	}

	unlock()

	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("Lock file not removed after unlock")
	}
}

func requireGit(t *testing.T) *Client {
	t.Helper()
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	client := NewClient(t.TempDir(), nil)
	if err := client.Init(); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}
	return client
}

func TestClient_Init(t *testing.T) {
	client := requireGit(t)

	if !client.IsRepo() {
		t.Error(".git directory not created")
	}
	if err := client.Init(); err != nil {
		t.Errorf("re-running init failed: %v", err)
	}
}

func TestClient_CommitAndLog(t *testing.T) {
	client := requireGit(t)
	file := "teams.json"
	path := filepath.Join(client.WorkDir, file)

	changed, err := client.Changed(file)
	if err != nil || changed {
		t.Fatalf("Changed() on missing file = %v, %v", changed, err)
	}

	steps := []struct {
		content string
		msg     string
	}{
		{`[{"id":"1"}]`, "add team"},
		{`[{"id":"1"},{"id":"2"}]`, "add another team"},
	}
	for _, s := range steps {
		if err := os.WriteFile(path, []byte(s.content), 0644); err != nil {
			t.Fatal(err)
		}
		if changed, err := client.Changed(file); err != nil || !changed {
			t.Fatalf("Changed() = %v, %v; want true", changed, err)
		}
		if err := client.Stage(file); err != nil {
			t.Fatalf("Stage() error = %v", err)
		}
		if err := client.Commit(s.msg); err != nil {
			t.Fatalf("Commit() error = %v", err)
		}
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := client.Stage(file); err != nil {
		t.Fatalf("Stage() of a deletion error = %v", err)
	}
	if err := client.Commit("remove teams"); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	log, err := client.Log(file)
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	want := []string{"remove teams", "add another team", "add team"}
	if len(log) != len(want) {
		t.Fatalf("Log() = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("Log()[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestSubcommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"status", "--porcelain"}, "status"},
		{[]string{"-c", "user.name=shelf", "-c", "user.email=shelf@localhost", "commit", "-m", "msg"}, "commit"},
		{[]string{"-C", "/tmp", "--no-pager", "log"}, "log"},
		{[]string{"--version"}, "--version"},
	}
	for _, tt := range tests {
		if got := subcommand(tt.args); got != tt.want {
			t.Errorf("subcommand(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestClient_CommitErrorNamesSubcommand(t *testing.T) {
	client := requireGit(t)

	// Nothing staged, so the commit fails.
	err := client.Commit("empty")
	if err == nil {
		t.Fatal("expected Commit() on an empty index to fail")
	}
	if !strings.HasPrefix(err.Error(), "git commit failed") {
		t.Errorf("error = %q, want it to name the commit subcommand", err)
	}
}
