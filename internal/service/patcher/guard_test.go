package patcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.name }

func listOf(processes ...ps.Process) processLister {
	return func() ([]ps.Process, error) {
		return processes, nil
	}
}

func selfName(t *testing.T) string {
	t.Helper()

	self, err := os.Executable()
	require.NoError(t, err)

	return filepath.Base(self)
}

// TestIsAnotherInstanceRunning covers self, other and foreign processes.
func TestIsAnotherInstanceRunning(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	name := selfName(t)

	require.False(t, isAnotherInstanceRunning(ctx, listOf(fakeProcess{pid: os.Getpid(), name: name})))
	require.False(t, isAnotherInstanceRunning(ctx, listOf(fakeProcess{pid: -1, name: "cargo"})))
	require.True(t, isAnotherInstanceRunning(ctx, listOf(
		fakeProcess{pid: os.Getpid(), name: name},
		fakeProcess{pid: -1, name: name},
	)))
}

// TestIsAnotherInstanceRunning_ListError treats listing failures as no instance.
func TestIsAnotherInstanceRunning_ListError(t *testing.T) {
	t.Parallel()

	list := func() ([]ps.Process, error) { return nil, errors.New("no /proc") }

	require.False(t, isAnotherInstanceRunning(context.Background(), list))
}

// TestMatchesExecutable handles kernel-truncated names.
func TestMatchesExecutable(t *testing.T) {
	t.Parallel()

	require.True(t, matchesExecutable("workspace-patcher", "workspace-patcher"))
	require.True(t, matchesExecutable("workspace-patch", "workspace-patcher"))
	require.False(t, matchesExecutable("workspace", "workspace-patcher"))
	require.False(t, matchesExecutable("", "workspace-patcher"))
}
