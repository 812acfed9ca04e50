package version

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func withBuild(t *testing.T, version, commit string) {
	t.Helper()
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })
	Version, Commit = version, commit
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	if info.Version == "" {
		t.Error("expected non-empty version")
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("expected go version %s, got %s", runtime.Version(), info.GoVersion)
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("unexpected platform %s", info.Platform)
	}
}

func TestString(t *testing.T) {
	t.Run("without commit", func(t *testing.T) {
		withBuild(t, "1.2.3", "unknown")
		s := String()
		if !strings.HasPrefix(s, ApplicationName+" version 1.2.3") {
			t.Errorf("unexpected string %q", s)
		}
		if strings.Contains(s, "commit") {
			t.Errorf("expected no commit in %q", s)
		}
	})

	t.Run("with commit", func(t *testing.T) {
		withBuild(t, "1.2.3", "0123456789abcdef")
		s := String()
		if !strings.Contains(s, "commit: 01234567") {
			t.Errorf("expected short commit in %q", s)
		}
	})
}

func TestShort(t *testing.T) {
	withBuild(t, "1.0.0", "unknown")
	if got := Short(); got != "1.0.0" {
		t.Errorf("expected 1.0.0, got %s", got)
	}

	withBuild(t, "1.0.0", "deadbeefcafe")
	if got := Short(); got != "1.0.0 (deadbeef)" {
		t.Errorf("expected '1.0.0 (deadbeef)', got %s", got)
	}
}

func TestProduct(t *testing.T) {
	withBuild(t, "0.4.0", "unknown")
	if got := Product(); got != "localtv/0.4.0" {
		t.Errorf("expected localtv/0.4.0, got %s", got)
	}
}

func TestIsSnapshot(t *testing.T) {
	tests := []struct {
		version  string
		expected bool
	}{
		{"dev", true},
		{"1.0.0", false},
		{"1.0.1-SNAPSHOT.abc1234", true},
		{"1.2.3-alpha.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			withBuild(t, tt.version, "unknown")
			if got := IsSnapshot(); got != tt.expected {
				t.Errorf("IsSnapshot() for %q = %v, want %v", tt.version, got, tt.expected)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	withBuild(t, "2.0.0", "unknown")

	var info Info
	if err := json.Unmarshal([]byte(JSON()), &info); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if info.Version != "2.0.0" {
		t.Errorf("expected version 2.0.0, got %s", info.Version)
	}
}
