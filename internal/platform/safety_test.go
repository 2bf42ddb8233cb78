package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePath(t *testing.T) {
	t.Parallel()

	tempRoot := os.TempDir()
	devBase := filepath.Join(tempRoot, DevDirName)

	tests := []struct {
		name      string
		userPath  string
		forceTemp bool
		expected  string
	}{
		{"Normal Mode - Empty", "", false, "."},
		{"Normal Mode - Specific Path", "/some/path", false, "/some/path"},
		{"Dev Mode - Empty Path", "", true, filepath.Join(devBase, "default")},
		{"Dev Mode - Current Dir", ".", true, filepath.Join(devBase, "default")},
		{"Dev Mode - Relative Name", "my-shelf", true, filepath.Join(devBase, "my-shelf")},
		{"Dev Mode - Traversal", "../bad/path", true, filepath.Join(devBase, "path")},
		{"Dev Mode - Absolute Outside Temp", "/srv/data", true, filepath.Join(devBase, "data")},
		{"Dev Mode - Inside Temp", filepath.Join(tempRoot, "my-test"), true, filepath.Join(tempRoot, "my-test")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePath(tt.userPath, tt.forceTemp)
			if got != tt.expected {
				t.Errorf("ResolvePath(%q, %v) = %q; want %q", tt.userPath, tt.forceTemp, got, tt.expected)
			}
		})
	}
}

func TestIsDevRun(t *testing.T) {
	// Test binaries end in .test.
	if !IsDevRun() {
		t.Errorf("IsDevRun() = false; want true inside go test")
	}
}
