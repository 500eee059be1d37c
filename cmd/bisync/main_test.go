package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCommand()
	cmd.SetArgs(append([]string{"--log-file", filepath.Join(t.TempDir(), "bisync.log")}, args...))
	return cmd.Execute()
}

func TestRootCommandSyncs(t *testing.T) {
	requires := require.New(t)
	left, right := t.TempDir(), t.TempDir()
	requires.NoError(os.MkdirAll(filepath.Join(left, "sub"), 0o755))
	requires.NoError(os.WriteFile(filepath.Join(left, "sub", "y.txt"), []byte("world"), 0o644))
	requires.NoError(os.WriteFile(filepath.Join(right, "x.txt"), []byte("hello"), 0o644))

	requires.NoError(execute(t, left, right))

	data, err := os.ReadFile(filepath.Join(right, "sub", "y.txt"))
	requires.NoError(err)
	requires.Equal("world", string(data))
	data, err = os.ReadFile(filepath.Join(left, "x.txt"))
	requires.NoError(err)
	requires.Equal("hello", string(data))
}

func TestRootCommandDryRunChangesNothing(t *testing.T) {
	requires := require.New(t)
	left, right := t.TempDir(), t.TempDir()
	requires.NoError(os.WriteFile(filepath.Join(left, "x.txt"), []byte("hello"), 0o644))

	requires.NoError(execute(t, "--dry-run", left, right))

	entries, err := os.ReadDir(right)
	requires.NoError(err)
	requires.Empty(entries)
}

func TestRootCommandFails(t *testing.T) {
	left := t.TempDir()
	tests := []struct {
		name       string
		args       []string
		syncFailed bool
	}{
		{name: "one directory", args: []string{left}},
		{name: "same directory twice", args: []string{left, left}},
		{name: "nested directories", args: []string{left, filepath.Join(left, "inner")}},
		{name: "unknown log level", args: []string{"--loglvl", "verbose", left, t.TempDir()}},
		{name: "missing directory", args: []string{left, filepath.Join(t.TempDir(), "missing")}, syncFailed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			require.Error(t, err)
			require.Equal(t, tt.syncFailed, errors.Is(err, errSyncFailed))
		})
	}
}
