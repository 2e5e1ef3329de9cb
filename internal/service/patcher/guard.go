package patcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/workspace-patcher/internal/logger"
)

// commNameLength is the length Linux truncates process names to in /proc/<pid>/stat.
const commNameLength = 15

// processLister returns the running processes. Replaced in tests.
type processLister func() ([]ps.Process, error)

// isAnotherInstanceRunning reports whether a process other than this one runs
// the same executable. A failure to list processes is logged and treated as "no".
func isAnotherInstanceRunning(ctx context.Context, list processLister) bool {
	self, err := os.Executable()
	if err != nil {
		logger.WarnKV(ctx, "Unable to resolve own executable, skipping instance check", "error", err)
		return false
	}

	processList, err := list()
	if err != nil {
		logger.WarnKV(ctx, "Unable to list processes, skipping instance check", "error", err)
		return false
	}

	var (
		name = filepath.Base(self)
		pid  = os.Getpid()
	)

	for _, process := range processList {
		if process.Pid() == pid {
			continue
		}

		if matchesExecutable(process.Executable(), name) {
			logger.DebugKV(ctx, "Found running instance", "pid", process.Pid(), "executable", process.Executable())
			return true
		}
	}

	return false
}

// matchesExecutable compares a reported process name with ours, allowing for
// the kernel truncating long names.
func matchesExecutable(candidate, self string) bool {
	if candidate == "" {
		return false
	}

	if candidate == self {
		return true
	}

	return len(candidate) == commNameLength && strings.HasPrefix(self, candidate)
}
