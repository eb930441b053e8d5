package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const cmdConfig = `package = "enums"
out = "gen"

[[enums]]
name = "category"
db_type = "String(Some(1))"
variants = [
  { name = "Big", value = "B" },
  { name = "Small", value = "S" },
]
`

const extraEnum = `
[[enums]]
name = "level"
repr = "uint8"
variants = [{ name = "Low", value = 0 }, { name = "High", value = 1 }]
`

// syncBuffer lets the test read log output while run is still writing it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func prepareCmdFixtures(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "activeenum.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunDryRun(t *testing.T) {
	configPath := prepareCmdFixtures(t, cmdConfig)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run(context.Background(), []string{"--config", configPath, "--dry-run"}, stdout, stderr)
	if exitCode != exitOK {
		t.Fatalf("exit code = %d, want 0; stderr=%q", exitCode, stderr.String())
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr output: %q", stderr.String())
	}

	expected := filepath.Join(filepath.Dir(configPath), "gen", "category_enum.go")
	if !strings.Contains(stdout.String(), expected) {
		t.Fatalf("stdout %q missing generated file %q", stdout.String(), expected)
	}
	if _, err := os.Stat(expected); !os.IsNotExist(err) {
		t.Fatalf("dry run wrote %s (stat err %v)", expected, err)
	}
}

func TestRunWrites(t *testing.T) {
	configPath := prepareCmdFixtures(t, cmdConfig)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	if code := run(context.Background(), []string{"-c", configPath}, stdout, stderr); code != exitOK {
		t.Fatalf("exit code = %d, want 0; stderr=%q", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(configPath), "gen", "category_enum.go")); err != nil {
		t.Fatalf("generated file missing: %v", err)
	}
}

func TestRunExitCodes(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		stdout := &bytes.Buffer{}
		if code := run(context.Background(), []string{"-h"}, stdout, &bytes.Buffer{}); code != exitOK {
			t.Fatalf("exit code = %d, want 0", code)
		}
		if !strings.Contains(stdout.String(), "Usage of activeenum") {
			t.Fatalf("help not printed: %q", stdout.String())
		}
	})

	t.Run("bad flag", func(t *testing.T) {
		if code := run(context.Background(), []string{"--nope"}, &bytes.Buffer{}, &bytes.Buffer{}); code != exitFailure {
			t.Fatalf("exit code = %d, want 1", code)
		}
	})

	t.Run("missing config", func(t *testing.T) {
		stderr := &bytes.Buffer{}
		missing := filepath.Join(t.TempDir(), "absent.toml")
		if code := run(context.Background(), []string{"-c", missing}, &bytes.Buffer{}, stderr); code != exitFailure {
			t.Fatalf("exit code = %d, want 1", code)
		}
		if !strings.Contains(stderr.String(), "absent.toml") {
			t.Fatalf("stderr %q does not name the config", stderr.String())
		}
	})

	t.Run("write failure", func(t *testing.T) {
		configPath := prepareCmdFixtures(t, cmdConfig)
		// A regular file where the output directory should be makes MkdirAll fail.
		if err := os.WriteFile(filepath.Join(filepath.Dir(configPath), "gen"), nil, 0o600); err != nil {
			t.Fatalf("write blocker: %v", err)
		}
		if code := run(context.Background(), []string{"-c", configPath}, &bytes.Buffer{}, &bytes.Buffer{}); code != exitWriteFailure {
			t.Fatalf("exit code = %d, want 2", code)
		}
	})
}

func TestRunWatch(t *testing.T) {
	configPath := prepareCmdFixtures(t, cmdConfig)
	levelPath := filepath.Join(filepath.Dir(configPath), "gen", "level_enum.go")
	stderr := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"-c", configPath, "--watch", "--debounce", "10ms"}, &bytes.Buffer{}, stderr)
	}()

	waitFor(t, func() bool { return strings.Contains(stderr.String(), "watching") })

	if err := os.WriteFile(configPath, []byte(cmdConfig+extraEnum), 0o600); err != nil {
		t.Fatalf("update config: %v", err)
	}
	waitFor(t, func() bool {
		_, err := os.Stat(levelPath)
		return err == nil
	})

	cancel()
	select {
	case code := <-done:
		if code != exitOK {
			t.Fatalf("watch exit code = %d, want 0; stderr=%q", code, stderr.String())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within 5s")
}
