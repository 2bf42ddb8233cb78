// Package git runs the git CLI for media that keep a versioned history of
// their namespaces.
package git

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultLockName is the lock file created in the working directory.
const DefaultLockName = ".shelf.lock"

// ErrLockTimeout is returned when the lock could not be acquired in time.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// Client wraps git command execution with a global file-based lock for process safety.
type Client struct {
	WorkDir     string
	Logger      *slog.Logger
	LockTimeout time.Duration
	lockPath    string
}

// NewClient creates a new git client for the given working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	return &Client{
		WorkDir:     workDir,
		Logger:      logger,
		LockTimeout: 10 * time.Second,
		lockPath:    DefaultLockName,
	}
}

// IsInstalled checks if git is available in the system path.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether the working directory holds a git repository.
func (c *Client) IsRepo() bool {
	info, err := os.Stat(filepath.Join(c.WorkDir, ".git"))
	return err == nil && info.IsDir()
}

// Lock acquires a file-based lock. It blocks until the lock is acquired or
// LockTimeout elapses.
func (c *Client) Lock() (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)
	deadline := time.Now().Add(c.LockTimeout)

	for {
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}

		if os.IsExist(err) {
			if c.LockTimeout > 0 && time.Now().After(deadline) {
				return nil, ErrLockTimeout
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}

		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
}

// Run executes a raw git command in the working directory.
// NOTE: It does NOT acquire the lock automatically. The caller must manage transaction safety via Client.Lock().
func (c *Client) Run(args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", subcommand(args), err, output)
	}

	return strings.TrimSpace(output), nil
}

// subcommand returns the git command name in args, skipping global options
// such as "-c key=value" or "-C dir".
func subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "-c" || arg == "-C":
			i++
		case strings.HasPrefix(arg, "-"):
		default:
			return arg
		}
	}
	return strings.Join(args, " ")
}

// Init initializes a new git repository. Re-running it is safe.
func (c *Client) Init() error {
	_, err := c.Run("init")
	return err
}

// Stage records additions, modifications and deletions of the given paths.
func (c *Client) Stage(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add", "-A", "--"}, files...)
	_, err := c.Run(args...)
	return err
}

// Changed reports whether the given paths differ from HEAD.
func (c *Client) Changed(files ...string) (bool, error) {
	args := append([]string{"status", "--porcelain", "--"}, files...)
	out, err := c.Run(args...)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Commit records staged changes. An identity is supplied so commits work on
// machines without a configured git user.
func (c *Client) Commit(msg string) error {
	_, err := c.Run("-c", "user.name=shelf", "-c", "user.email=shelf@localhost", "commit", "-m", msg)
	return err
}

// Log returns the one-line history of a path, newest first.
func (c *Client) Log(file string) ([]string, error) {
	out, err := c.Run("log", "--format=%s", "--", file)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
